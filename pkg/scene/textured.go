package scene

import (
	"math/rand"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// EarthTexture is the file the earth scene loads from the texture directory
const EarthTexture = "earthmap.jpg"

func closeUpCamera() renderer.CameraConfig {
	camera := renderer.DefaultCameraConfig()
	camera.Aperture = 0
	return camera
}

// NewEarthScene creates an image-textured globe next to a red light
func NewEarthScene(random *rand.Rand, options Options) (*Scene, error) {
	path := filepath.Join(options.TextureDir, EarthTexture)
	texture, err := loaders.LoadImageTexture(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load earth texture")
	}

	s := newScene("earth", closeUpCamera())
	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, 0), 2, material.NewLambertian(texture)),
		geometry.NewSphere(core.NewVec3(0, -1005, 0), 1000, material.NewSolidLambertian(core.NewVec3(0.1, 0.1, 0.1))),
		geometry.NewSphere(core.NewVec3(0, 3, 1), 1,
			material.NewLight(material.NewSolidColor(core.NewVec3(1, 0, 0)), core.NewVec3(100, 20, 20))),
	)
	return s, nil
}

// NewStarsScene creates a procedurally star-speckled globe flanked by glass and metal spheres
func NewStarsScene(random *rand.Rand, options Options) (*Scene, error) {
	s := newScene("stars", closeUpCamera())
	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, 0), 2, material.NewLambertian(material.NewStarTexture())),
		geometry.NewSphere(core.NewVec3(0, -1002, 0), 1000,
			material.NewLambertian(material.NewChecker(core.NewVec3(0.1, 0.1, 0.15), core.NewVec3(0.6, 0.6, 0.6)))),
		geometry.NewSphere(core.NewVec3(1.5, -1.2, 2.5), 0.8, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-1.5, -1.2, -2.5), 0.8, material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.05)),
	)
	return s, nil
}
