package renderer

import (
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/df07/go-pathtracer/pkg/core"
)

// minHitDistance keeps scattered rays from re-hitting the surface they left
const minHitDistance = 0.001

// ProgressFunc is called after each finished scanline. It runs on worker
// goroutines and should return quickly.
type ProgressFunc func(completedRows, totalRows int)

// Raytracer handles the rendering process
type Raytracer struct {
	world      core.Hittable
	camera     *Camera
	background Background
	width      int
	height     int
	config     SamplingConfig
	logger     core.Logger
	progress   ProgressFunc
}

// NewRaytracer creates a new raytracer. The world is shared read-only by all workers.
func NewRaytracer(world core.Hittable, camera *Camera, width, height int, config SamplingConfig) (*Raytracer, error) {
	var err error
	if world == nil {
		err = multierr.Append(err, errors.New("world is required"))
	}
	if camera == nil {
		err = multierr.Append(err, errors.New("camera is required"))
	}
	if width <= 0 || height <= 0 {
		err = multierr.Append(err, errors.Errorf("image size must be positive, got %dx%d", width, height))
	}
	err = multierr.Append(err, config.Validate())
	if err != nil {
		return nil, errors.Wrap(err, "invalid raytracer configuration")
	}

	return &Raytracer{
		world:      world,
		camera:     camera,
		background: DefaultBackground(),
		width:      width,
		height:     height,
		config:     config,
		logger:     zap.NewNop().Sugar(),
	}, nil
}

// SetBackground replaces the sky gradient
func (rt *Raytracer) SetBackground(background Background) {
	rt.background = background
}

// SetLogger sets the logger used for render progress messages
func (rt *Raytracer) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	rt.logger = logger
}

// SetProgress installs a scanline completion callback
func (rt *Raytracer) SetProgress(progress ProgressFunc) {
	rt.progress = progress
}

// RayColor estimates the radiance arriving along a ray.
// Paths are cut off after MaxDepth bounces and contribute nothing beyond that.
func (rt *Raytracer) RayColor(ray core.Ray, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)
	var radiance core.Vec3

	for depth := 0; depth < rt.config.MaxDepth; depth++ {
		hit, isHit := rt.world.Hit(ray, minHitDistance, math.Inf(1))
		if !isHit {
			return radiance.Add(throughput.MultiplyVec(rt.background.Color(ray)))
		}
		if hit.Material == nil {
			return radiance
		}

		if rt.config.AccumulateEmission {
			emitted := hit.Material.Emitted(hit.U, hit.V, hit.Point)
			radiance = radiance.Add(throughput.MultiplyVec(emitted))
		}

		scatter, scattered := hit.Material.Scatter(ray, hit, sampler)
		if !scattered {
			return radiance
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	return radiance
}

// renderRow fills one output row. j counts scanlines from the bottom of the frame.
func (rt *Raytracer) renderRow(j int, row []core.Vec3, sampler core.Sampler) {
	// Avoid dividing by zero for single-pixel dimensions
	uScale := float64(max(1, rt.width-1))
	vScale := float64(max(1, rt.height-1))
	spp := float64(rt.config.SamplesPerPixel)

	for i := range row {
		var colorAccum core.Vec3
		for s := 0; s < rt.config.SamplesPerPixel; s++ {
			u := (float64(i) + sampler.Get1D()) / uScale
			v := (float64(j) + sampler.Get1D()) / vScale
			ray := rt.camera.GetRay(u, v, sampler)
			colorAccum = colorAccum.Add(rt.RayColor(ray, sampler))
		}
		row[i] = colorAccum.Divide(spp)
	}
}

// Render renders the full frame in parallel scanlines and returns it with its statistics.
// Output row 0 is the top of the image.
func (rt *Raytracer) Render() (*Frame, RenderStats) {
	start := time.Now()
	numWorkers := rt.config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = min(numWorkers, rt.height)

	rt.logger.Infof("Rendering %dx%d at %d samples per pixel, max depth %d, %d workers",
		rt.width, rt.height, rt.config.SamplesPerPixel, rt.config.MaxDepth, numWorkers)

	frame := NewFrame(rt.width, rt.height)

	// Counting under the lock keeps progress reports in increasing order
	var progressMu sync.Mutex
	completed := 0
	onRowDone := func() {
		progressMu.Lock()
		defer progressMu.Unlock()
		completed++
		if rt.progress != nil {
			rt.progress(completed, rt.height)
		}
	}

	pool := NewWorkerPool(rt, frame, numWorkers, onRowDone)
	pool.Start()
	for j := 0; j < rt.height; j++ {
		pool.SubmitTask(RowTask{Row: j})
	}
	pool.Stop()

	stats := computeStats(frame, rt.config.SamplesPerPixel, pool.GetNumWorkers(), time.Since(start))
	rt.logger.Infof("Render finished in %v: %d samples, mean luminance %.4f",
		stats.Duration, stats.TotalSamples, stats.MeanLuminance)

	return frame, stats
}
