package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Light is a surface that emits a fixed color and never scatters.
// Albedo is carried for scene descriptions but does not affect shading.
type Light struct {
	Albedo core.Texture
	Color  core.Vec3
}

// NewLight creates a new light material
func NewLight(albedo core.Texture, color core.Vec3) *Light {
	return &Light{Albedo: albedo, Color: color}
}

// Scatter always absorbs the incoming ray
func (l *Light) Scatter(rayIn core.Ray, hit *core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

// Emitted returns the light color everywhere on the surface
func (l *Light) Emitted(u, v float64, point core.Vec3) core.Vec3 {
	return l.Color
}
