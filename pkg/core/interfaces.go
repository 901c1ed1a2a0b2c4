package core

// Logger interface for raytracer logging. *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// Hittable is anything a ray can be intersected with
type Hittable interface {
	// Hit returns the closest intersection with parameter strictly inside (tMin, tMax)
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	// BoundingBox returns a box enclosing the object over the shutter interval [time0, time1].
	// Unbounded objects return false.
	BoundingBox(time0, time1 float64) (AABB, bool)
}

// Material decides how a surface scatters, absorbs or emits light
type Material interface {
	// Scatter returns the scattered ray and its attenuation, or false if the ray is absorbed
	Scatter(rayIn Ray, hit *HitRecord, sampler Sampler) (ScatterResult, bool)
	// Emitted returns the radiance emitted at the surface point
	Emitted(u, v float64, point Vec3) Vec3
}

// Texture maps surface coordinates and a point in space to a color
type Texture interface {
	Value(u, v float64, point Vec3) Vec3
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   Ray  // The scattered ray
	Attenuation Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     Vec3     // Point of intersection
	Normal    Vec3     // Unit surface normal, always facing against the incoming ray
	T         float64  // Parameter t along the ray
	FrontFace bool     // Whether ray hit the front face
	Material  Material // Material of the hit object
	U, V      float64  // Surface coordinates for texturing
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// NoEmission can be embedded by materials that never emit light
type NoEmission struct{}

// Emitted returns black
func (NoEmission) Emitted(u, v float64, point Vec3) Vec3 {
	return Vec3{}
}
