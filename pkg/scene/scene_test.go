package scene

import (
	"image/color"
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"go.viam.com/test"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

func TestNames(t *testing.T) {
	test.That(t, Names(), test.ShouldResemble, []string{"checkered-cover", "cover", "earth", "moving-cover", "stars"})
	test.That(t, List(), test.ShouldHaveLength, 5)
	for _, info := range List() {
		test.That(t, info.Description, test.ShouldNotEqual, "")
	}
}

func TestBuild_Unknown(t *testing.T) {
	_, err := Build("teapot", 1, Options{})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown scene")

	_, ok := Lookup("teapot")
	test.That(t, ok, test.ShouldBeFalse)
}

func TestCoverScene(t *testing.T) {
	s, err := Build("cover", 42, Options{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Name, test.ShouldEqual, "cover")
	test.That(t, s.Camera.Validate(), test.ShouldBeNil)
	test.That(t, s.AspectRatio(), test.ShouldAlmostEqual, 16.0/9.0, 1e-12)

	// Ground + small spheres (at most 22x22) + 3 big ones
	test.That(t, len(s.Objects), test.ShouldBeGreaterThan, 4)
	test.That(t, len(s.Objects), test.ShouldBeLessThanOrEqualTo, 1+22*22+3)

	clearing := core.NewVec3(4, 0.2, 0)
	for _, object := range s.Objects {
		_, moving := object.(*geometry.MovingSphere)
		test.That(t, moving, test.ShouldBeFalse)

		sphere := object.(*geometry.Sphere)
		if sphere.Radius == 0.2 {
			test.That(t, sphere.Center.Subtract(clearing).Length(), test.ShouldBeGreaterThan, 0.9)
			if metal, ok := sphere.Material.(*material.Metal); ok {
				test.That(t, metal.Fuzzness, test.ShouldBeLessThan, 0.5)
				test.That(t, metal.Albedo.X, test.ShouldBeGreaterThanOrEqualTo, 0.5)
			}
		}
	}
}

func TestCoverScene_Reproducible(t *testing.T) {
	a, err := Build("moving-cover", 7, Options{})
	test.That(t, err, test.ShouldBeNil)
	b, err := Build("moving-cover", 7, Options{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Objects, test.ShouldResemble, a.Objects)

	c, err := Build("moving-cover", 8, Options{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Objects, test.ShouldNotResemble, a.Objects)
}

func TestCheckeredCoverScene(t *testing.T) {
	s, err := Build("checkered-cover", 3, Options{})
	test.That(t, err, test.ShouldBeNil)

	ground := s.Objects[0].(*geometry.Sphere)
	_, checkered := ground.Material.(*material.Lambertian).Albedo.(*material.Checker)
	test.That(t, checkered, test.ShouldBeTrue)

	movers := 0
	for _, object := range s.Objects {
		if sphere, ok := object.(*geometry.MovingSphere); ok {
			movers++
			rise := sphere.Center1.Y - sphere.Center0.Y
			test.That(t, rise, test.ShouldBeGreaterThanOrEqualTo, 0.1)
			test.That(t, rise, test.ShouldBeLessThan, 0.3)
			test.That(t, sphere.Time0, test.ShouldEqual, 0.0)
			test.That(t, sphere.Time1, test.ShouldEqual, 1.0)
		}
	}
	test.That(t, movers, test.ShouldBeGreaterThan, 0)
}

func TestScene_World(t *testing.T) {
	s, err := Build("moving-cover", 11, Options{})
	test.That(t, err, test.ShouldBeNil)

	world, err := s.World(rand.New(rand.NewSource(1)))
	test.That(t, err, test.ShouldBeNil)
	bvh, ok := world.(*core.BVH)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, bvh.Stats().Objects, test.ShouldEqual, len(s.Objects))

	// The compiled world agrees with a brute-force scan
	list := core.NewHittableList(s.Objects...)
	random := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		origin := core.NewVec3(13, 2, 3)
		direction := core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5).Subtract(origin.Multiply(0.1))
		ray := core.NewRayAt(origin, direction, random.Float64())

		got, gotHit := world.Hit(ray, 0.001, math.Inf(1))
		want, wantHit := list.Hit(ray, 0.001, math.Inf(1))
		test.That(t, gotHit, test.ShouldEqual, wantHit)
		if wantHit {
			test.That(t, got.T, test.ShouldEqual, want.T)
		}
	}
}

func TestScene_WorldSmall(t *testing.T) {
	s := newScene("single", closeUpCamera())
	s.Add(geometry.NewSphere(core.Vec3{}, 1, nil))

	world, err := s.World(rand.New(rand.NewSource(1)))
	test.That(t, err, test.ShouldBeNil)
	_, ok := world.(*core.HittableList)
	test.That(t, ok, test.ShouldBeTrue)
}

func TestEarthScene(t *testing.T) {
	_, err := Build("earth", 1, Options{TextureDir: t.TempDir()})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to load earth texture")

	dir := t.TempDir()
	img := imaging.New(8, 4, color.NRGBA{R: 0, G: 0, B: 255, A: 255})
	img.Set(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	test.That(t, imaging.Save(img, filepath.Join(dir, EarthTexture)), test.ShouldBeNil)

	s, err := Build("earth", 1, Options{TextureDir: dir})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Objects, test.ShouldHaveLength, 3)

	globe := s.Objects[0].(*geometry.Sphere)
	texture := globe.Material.(*material.Lambertian).Albedo.(*material.ImageTexture)
	test.That(t, texture.Width, test.ShouldEqual, 8)
	test.That(t, texture.Height, test.ShouldEqual, 4)

	light := s.Objects[2].(*geometry.Sphere).Material.(*material.Light)
	test.That(t, light.Color, test.ShouldResemble, core.NewVec3(100, 20, 20))
}

func TestStarsScene(t *testing.T) {
	s, err := Build("stars", 1, Options{})
	test.That(t, err, test.ShouldBeNil)

	globe := s.Objects[0].(*geometry.Sphere)
	_, stars := globe.Material.(*material.Lambertian).Albedo.(*material.StarTexture)
	test.That(t, stars, test.ShouldBeTrue)

	_, err = s.World(rand.New(rand.NewSource(1)))
	test.That(t, err, test.ShouldBeNil)
}
