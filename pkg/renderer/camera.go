package renderer

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Camera generates rays for rendering, with a thin lens for depth of field
// and a shutter interval for motion blur
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Orthonormal camera basis; w points backwards
	lensRadius      float64
	time0, time1    float64
}

// NewCamera creates a camera from its configuration and the output aspect ratio (width / height)
func NewCamera(config CameraConfig, aspectRatio float64) *Camera {
	theta := config.VFov * math.Pi / 180
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := aspectRatio * viewportHeight

	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.VUp.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.LookFrom
	// Scale the viewport so it lies on the focal plane
	horizontal := u.Multiply(config.FocusDist * viewportWidth)
	vertical := v.Multiply(config.FocusDist * viewportHeight)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(config.FocusDist))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		time0:           config.Time0,
		time1:           config.Time1,
	}
}

// GetRay generates a ray for viewport coordinates (s, t), where (0, 0) is the
// lower-left corner and (1, 1) the upper-right
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	rd := core.SampleInUnitDisk(sampler).Multiply(c.lensRadius)
	offset := c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	time := c.time0 + sampler.Get1D()*(c.time1-c.time0)

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin).
		Subtract(offset)

	return core.NewRayAt(c.origin.Add(offset), direction, time)
}
