package renderer

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
	"go.viam.com/test"
	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// passThrough scatters every ray onwards unchanged, optionally glowing
type passThrough struct {
	glow core.Vec3
}

func (p passThrough) Scatter(rayIn core.Ray, hit *core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{Scattered: core.NewRayAt(hit.Point, rayIn.Direction, rayIn.Time), Attenuation: core.NewVec3(1, 1, 1)}, true
}

func (p passThrough) Emitted(u, v float64, point core.Vec3) core.Vec3 {
	return p.glow
}

// endlessWorld reports a hit for every ray it sees
type endlessWorld struct {
	material core.Material
	hits     int
}

func (w *endlessWorld) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	w.hits++
	hit := &core.HitRecord{T: 1, Point: ray.At(1), Material: w.material}
	hit.SetFaceNormal(ray, ray.Direction.Negate().Normalize())
	return hit, true
}

func (w *endlessWorld) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return core.AABB{}, false
}

// groundWorld absorbs every ray heading downwards
type groundWorld struct{}

func (groundWorld) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	if ray.Direction.Y >= 0 {
		return nil, false
	}
	hit := &core.HitRecord{T: 1, Point: ray.At(1), Material: material.NewLight(nil, core.Vec3{})}
	hit.SetFaceNormal(ray, core.NewVec3(0, 1, 0))
	return hit, true
}

func (groundWorld) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return core.AABB{}, false
}

func levelCamera() *Camera {
	return NewCamera(CameraConfig{
		LookFrom: core.NewVec3(0, 0, 0), LookAt: core.NewVec3(0, 0, -1), VUp: core.NewVec3(0, 1, 0),
		VFov: 90, FocusDist: 1,
	}, 1)
}

// sphereWorld is a diffuse sphere resting on a large ground sphere
func sphereWorld(t *testing.T) core.Hittable {
	t.Helper()
	objects := []core.Hittable{
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewSolidLambertian(core.NewVec3(0.7, 0.3, 0.3))),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewSolidLambertian(core.NewVec3(0.8, 0.8, 0))),
	}
	world, err := core.NewBVH(objects, 0, 1, rand.New(rand.NewSource(1)))
	test.That(t, err, test.ShouldBeNil)
	return world
}

func sphereCamera() *Camera {
	return NewCamera(CameraConfig{
		LookFrom: core.NewVec3(0, 0, 1), LookAt: core.NewVec3(0, 0, -1), VUp: core.NewVec3(0, 1, 0),
		VFov: 60, Aperture: 0.05, FocusDist: 2, Time0: 0, Time1: 1,
	}, 4.0/3.0)
}

func newTestRaytracer(t *testing.T, world core.Hittable, camera *Camera, width, height int, config SamplingConfig) *Raytracer {
	t.Helper()
	rt, err := NewRaytracer(world, camera, width, height, config)
	test.That(t, err, test.ShouldBeNil)
	rt.SetLogger(zaptest.NewLogger(t).Sugar())
	return rt
}

func TestNewRaytracer_Validation(t *testing.T) {
	_, err := NewRaytracer(nil, nil, 0, 10, SamplingConfig{})
	test.That(t, err, test.ShouldNotBeNil)
	for _, msg := range []string{"world is required", "camera is required", "image size", "samples per pixel", "max depth"} {
		test.That(t, err.Error(), test.ShouldContainSubstring, msg)
	}
}

func TestRayColor_Sky(t *testing.T) {
	rt := newTestRaytracer(t, core.NewHittableList(), levelCamera(), 1, 1, DefaultSamplingConfig())
	sampler := core.NewSeededSampler(1)

	test.That(t, rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), sampler), test.ShouldResemble, rt.background.Zenith)
	test.That(t, rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, -1, 0)), sampler), test.ShouldResemble, rt.background.Horizon)

	custom := Background{Horizon: core.NewVec3(0, 0, 0), Zenith: core.NewVec3(0, 0, 1)}
	rt.SetBackground(custom)
	test.That(t, rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), sampler), test.ShouldResemble, custom.Zenith)
}

func TestRayColor_DepthCap(t *testing.T) {
	world := &endlessWorld{material: passThrough{}}
	config := DefaultSamplingConfig()
	rt := newTestRaytracer(t, world, levelCamera(), 1, 1, config)

	color := rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), core.NewSeededSampler(1))
	test.That(t, color, test.ShouldResemble, core.Vec3{})
	test.That(t, world.hits, test.ShouldEqual, config.MaxDepth)
}

func TestRayColor_Emission(t *testing.T) {
	glow := core.NewVec3(0.25, 0, 0)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0))

	t.Run("ignored by default", func(t *testing.T) {
		rt := newTestRaytracer(t, &endlessWorld{material: passThrough{glow: glow}}, levelCamera(), 1, 1, DefaultSamplingConfig())
		test.That(t, rt.RayColor(ray, core.NewSeededSampler(1)), test.ShouldResemble, core.Vec3{})
	})

	t.Run("accumulated along the path", func(t *testing.T) {
		config := DefaultSamplingConfig()
		config.AccumulateEmission = true
		config.MaxDepth = 4
		rt := newTestRaytracer(t, &endlessWorld{material: passThrough{glow: glow}}, levelCamera(), 1, 1, config)
		test.That(t, rt.RayColor(ray, core.NewSeededSampler(1)), test.ShouldResemble, core.NewVec3(1, 0, 0))
	})

	t.Run("light surfaces terminate paths", func(t *testing.T) {
		config := DefaultSamplingConfig()
		config.AccumulateEmission = true
		light := material.NewLight(material.NewSolidColor(core.NewVec3(1, 1, 1)), core.NewVec3(4, 2, 1))
		world := geometry.NewSphere(core.NewVec3(3, 0, 0), 1, light)
		rt := newTestRaytracer(t, world, levelCamera(), 1, 1, config)
		test.That(t, rt.RayColor(ray, core.NewSeededSampler(1)), test.ShouldResemble, core.NewVec3(4, 2, 1))
	})
}

func TestRender_RowZeroIsTop(t *testing.T) {
	config := DefaultSamplingConfig()
	config.SamplesPerPixel = 4
	rt := newTestRaytracer(t, groundWorld{}, levelCamera(), 4, 4, config)

	frame, _ := rt.Render()
	test.That(t, frame.Pixels, test.ShouldHaveLength, 4)
	for x := 0; x < 4; x++ {
		test.That(t, frame.At(x, 0).Luminance(), test.ShouldBeGreaterThan, 0.0)
		test.That(t, frame.At(x, 3), test.ShouldResemble, core.Vec3{})
	}
}

func TestRender_Deterministic(t *testing.T) {
	world := sphereWorld(t)
	config := DefaultSamplingConfig()
	config.SamplesPerPixel = 8
	config.NumWorkers = 1

	first, _ := newTestRaytracer(t, world, sphereCamera(), 16, 12, config).Render()
	second, _ := newTestRaytracer(t, world, sphereCamera(), 16, 12, config).Render()
	test.That(t, second.Pixels, test.ShouldResemble, first.Pixels)

	// Worker count only changes scheduling
	config.NumWorkers = 5
	parallel, _ := newTestRaytracer(t, world, sphereCamera(), 16, 12, config).Render()
	test.That(t, parallel.Pixels, test.ShouldResemble, first.Pixels)

	config.Seed = 7
	reseeded, _ := newTestRaytracer(t, world, sphereCamera(), 16, 12, config).Render()
	test.That(t, reseeded.Pixels, test.ShouldNotResemble, first.Pixels)
}

func TestRender_VarianceShrinksWithSamples(t *testing.T) {
	world := sphereWorld(t)
	const repeats = 30

	variance := func(spp int) float64 {
		values := make([]float64, repeats)
		for i := range values {
			config := DefaultSamplingConfig()
			config.SamplesPerPixel = spp
			config.Seed = int64(1000*spp + i)
			config.NumWorkers = 1
			// A single pixel covers the whole viewport, mixing sky, sphere and ground
			frame, _ := newTestRaytracer(t, world, sphereCamera(), 1, 1, config).Render()
			values[i] = frame.At(0, 0).Luminance()
		}
		return stat.Variance(values, nil)
	}

	v10 := variance(10)
	v100 := variance(100)
	v1000 := variance(1000)
	test.That(t, v10, test.ShouldBeGreaterThan, v100)
	test.That(t, v100, test.ShouldBeGreaterThan, v1000)
	test.That(t, v1000, test.ShouldBeGreaterThan, 0.0)
}

func TestRender_StatsAndProgress(t *testing.T) {
	config := DefaultSamplingConfig()
	config.SamplesPerPixel = 2
	config.NumWorkers = 3
	rt := newTestRaytracer(t, core.NewHittableList(), levelCamera(), 5, 7, config)

	var mu sync.Mutex
	var calls []int
	rt.SetProgress(func(completed, total int) {
		mu.Lock()
		defer mu.Unlock()
		test.That(t, total, test.ShouldEqual, 7)
		calls = append(calls, completed)
	})

	frame, stats := rt.Render()
	test.That(t, frame.Width, test.ShouldEqual, 5)
	test.That(t, frame.Height, test.ShouldEqual, 7)

	test.That(t, calls, test.ShouldHaveLength, 7)
	test.That(t, calls[len(calls)-1], test.ShouldEqual, 7)
	for i := 1; i < len(calls); i++ {
		test.That(t, calls[i], test.ShouldBeGreaterThan, calls[i-1])
	}

	test.That(t, stats.Width, test.ShouldEqual, 5)
	test.That(t, stats.Height, test.ShouldEqual, 7)
	test.That(t, stats.SamplesPerPixel, test.ShouldEqual, 2)
	test.That(t, stats.TotalSamples, test.ShouldEqual, 70)
	test.That(t, stats.Workers, test.ShouldEqual, 3)
	// Sky luminance lies between the horizon and zenith colors
	test.That(t, stats.MeanLuminance, test.ShouldBeGreaterThan, core.NewVec3(0.5, 0.7, 1.0).Luminance())
	test.That(t, stats.MeanLuminance, test.ShouldBeLessThan, 1.0)
	test.That(t, stats.StdDevLuminance, test.ShouldBeGreaterThan, 0.0)
	test.That(t, math.IsNaN(stats.SamplesPerSecond()), test.ShouldBeFalse)
}

func TestRowSeed(t *testing.T) {
	seen := map[int64]bool{}
	for _, seed := range []int64{0, 1, 42} {
		for row := 0; row < 100; row++ {
			s := rowSeed(seed, row)
			test.That(t, seen[s], test.ShouldBeFalse)
			seen[s] = true
			test.That(t, rowSeed(seed, row), test.ShouldEqual, s)
		}
	}
}
