package renderer

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/df07/go-pathtracer/pkg/core"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel    int   // Number of rays per pixel
	MaxDepth           int   // Maximum ray bounce depth
	NumWorkers         int   // Number of parallel workers (0 = use CPU count)
	Seed               int64 // Base seed; every scanline derives its own stream from it
	AccumulateEmission bool  // Add light emitted by surfaces along the path
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		NumWorkers:      0, // Auto-detect CPU count
		Seed:            42,
	}
}

// Validate reports every invalid field at once
func (c SamplingConfig) Validate() error {
	var err error
	if c.SamplesPerPixel <= 0 {
		err = multierr.Append(err, errors.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel))
	}
	if c.MaxDepth <= 0 {
		err = multierr.Append(err, errors.Errorf("max depth must be positive, got %d", c.MaxDepth))
	}
	if c.NumWorkers < 0 {
		err = multierr.Append(err, errors.Errorf("worker count cannot be negative, got %d", c.NumWorkers))
	}
	return err
}

// CameraConfig describes where the camera sits and how its lens and shutter behave.
// The aspect ratio comes from the output size and is passed to NewCamera separately.
type CameraConfig struct {
	LookFrom  core.Vec3
	LookAt    core.Vec3
	VUp       core.Vec3
	VFov      float64 // Vertical field of view in degrees
	Aperture  float64 // Lens diameter; 0 is a pinhole
	FocusDist float64 // Distance to the plane in perfect focus
	Time0     float64 // Shutter open
	Time1     float64 // Shutter close
}

// DefaultCameraConfig returns the camera used by the cover scenes
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		LookFrom:  core.NewVec3(13, 2, 3),
		LookAt:    core.NewVec3(0, 0, 0),
		VUp:       core.NewVec3(0, 1, 0),
		VFov:      20,
		Aperture:  0.1,
		FocusDist: 10,
		Time0:     0,
		Time1:     1,
	}
}

// Validate reports every invalid field at once
func (c CameraConfig) Validate() error {
	var err error
	if c.LookFrom.Equals(c.LookAt) {
		err = multierr.Append(err, errors.New("look from and look at must differ"))
	}
	if c.VUp.LengthSquared() == 0 {
		err = multierr.Append(err, errors.New("view up vector must be non-zero"))
	} else if c.VUp.Cross(c.LookFrom.Subtract(c.LookAt)).LengthSquared() == 0 {
		err = multierr.Append(err, errors.New("view up vector must not be parallel to the view direction"))
	}
	if c.VFov <= 0 || c.VFov >= 180 || math.IsNaN(c.VFov) {
		err = multierr.Append(err, errors.Errorf("vertical field of view must be in (0, 180), got %v", c.VFov))
	}
	if c.Aperture < 0 {
		err = multierr.Append(err, errors.Errorf("aperture cannot be negative, got %v", c.Aperture))
	}
	if c.FocusDist <= 0 {
		err = multierr.Append(err, errors.Errorf("focus distance must be positive, got %v", c.FocusDist))
	}
	if c.Time1 < c.Time0 {
		err = multierr.Append(err, errors.Errorf("shutter closes (%v) before it opens (%v)", c.Time1, c.Time0))
	}
	return err
}

// Background is the sky gradient returned for rays that escape the scene
type Background struct {
	Horizon core.Vec3 // Color looking straight down
	Zenith  core.Vec3 // Color looking straight up
}

// DefaultBackground returns the white-to-sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Horizon: core.NewVec3(1.0, 1.0, 1.0),
		Zenith:  core.NewVec3(0.5, 0.7, 1.0),
	}
}

// Color returns a gradient color based on ray direction
func (b Background) Color(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)
	return b.Horizon.Lerp(b.Zenith, t)
}
