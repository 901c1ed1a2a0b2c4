package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	core.NoEmission
	Albedo core.Texture // Base color/reflectance (can be solid or textured)
}

// NewLambertian creates a new lambertian material with the given albedo texture
func NewLambertian(albedo core.Texture) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// NewSolidLambertian creates a lambertian material with a uniform color
func NewSolidLambertian(albedo core.Vec3) *Lambertian {
	return NewLambertian(NewSolidColor(albedo))
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit *core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	direction := hit.Normal.Add(core.SampleInUnitSphere(sampler))

	// Catch the degenerate case where the sample cancels the normal
	if direction.LengthSquared() < 1e-16 {
		direction = hit.Normal
	}

	return core.ScatterResult{
		Scattered:   core.NewRayAt(hit.Point, direction, rayIn.Time),
		Attenuation: l.Albedo.Value(hit.U, hit.V, hit.Point),
	}, true
}
