package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewCoverScene creates the classic field of small random spheres around three large ones
func NewCoverScene(random *rand.Rand, options Options) (*Scene, error) {
	ground := material.NewSolidColor(core.NewVec3(0.5, 0.5, 0.5))
	return newCoverScene("cover", random, ground, false), nil
}

// NewMovingCoverScene is the cover scene with a quarter of the small spheres in motion
func NewMovingCoverScene(random *rand.Rand, options Options) (*Scene, error) {
	ground := material.NewSolidColor(core.NewVec3(0.5, 0.5, 0.5))
	return newCoverScene("moving-cover", random, ground, true), nil
}

// NewCheckeredCoverScene is the moving cover scene on a checkered ground
func NewCheckeredCoverScene(random *rand.Rand, options Options) (*Scene, error) {
	ground := material.NewChecker(core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9))
	return newCoverScene("checkered-cover", random, ground, true), nil
}

func newCoverScene(name string, random *rand.Rand, ground core.Texture, moving bool) *Scene {
	s := newScene(name, renderer.DefaultCameraConfig())

	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(ground)))

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)
			// Keep the space around the big metal sphere clear
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			mat := randomMaterial(random)
			if moving && random.Float64() < 0.25 {
				center1 := center.Add(core.NewVec3(0, randomRange(random, 0.1, 0.3), 0))
				s.Add(geometry.NewMovingSphere(center, center1, 0, 1, 0.2, mat))
			} else {
				s.Add(geometry.NewSphere(center, 0.2, mat))
			}
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, material.NewSolidLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0)),
	)
	return s
}

// randomMaterial picks diffuse, metal or glass with 50/25/25 odds
func randomMaterial(random *rand.Rand) core.Material {
	choice := random.Float64()
	switch {
	case choice < 0.5:
		albedo := randomColor(random, 0, 1).MultiplyVec(randomColor(random, 0, 1))
		return material.NewSolidLambertian(albedo)
	case choice < 0.75:
		albedo := randomColor(random, 0.5, 1)
		fuzz := randomRange(random, 0, 0.5)
		return material.NewMetal(albedo, fuzz)
	default:
		return material.NewDielectric(1.5)
	}
}

func randomRange(random *rand.Rand, from, to float64) float64 {
	return from + (to-from)*random.Float64()
}

func randomColor(random *rand.Rand, from, to float64) core.Vec3 {
	return core.NewVec3(
		randomRange(random, from, to),
		randomRange(random, from, to),
		randomRange(random, from, to),
	)
}
