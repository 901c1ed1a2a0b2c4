package scene

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name       string
	Objects    []core.Hittable // Objects in the scene
	Camera     renderer.CameraConfig
	Background renderer.Background
	Width      int // Suggested image width
	Height     int // Suggested image height
}

// AspectRatio returns width / height of the suggested image size
func (s *Scene) AspectRatio() float64 {
	return float64(s.Width) / float64(s.Height)
}

// Add appends objects to the scene
func (s *Scene) Add(objects ...core.Hittable) {
	s.Objects = append(s.Objects, objects...)
}

// World compiles the objects into something the renderer can trace against:
// a BVH over the camera's shutter interval, or a plain list for fewer than two objects.
func (s *Scene) World(random *rand.Rand) (core.Hittable, error) {
	if len(s.Objects) < 2 {
		return core.NewHittableList(s.Objects...), nil
	}

	bvh, err := core.NewBVH(s.Objects, s.Camera.Time0, s.Camera.Time1, random)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build BVH for scene %q", s.Name)
	}
	return bvh, nil
}

// newScene creates a scene with the default sky and a 16:9 image
func newScene(name string, camera renderer.CameraConfig) *Scene {
	return &Scene{
		Name:       name,
		Camera:     camera,
		Background: renderer.DefaultBackground(),
		Width:      400,
		Height:     225,
	}
}
