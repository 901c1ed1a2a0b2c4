package main

import (
	"fmt"
	"image"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

const (
	// Flags.
	flagScene      = "scene"
	flagWidth      = "width"
	flagHeight     = "height"
	flagSamples    = "samples"
	flagDepth      = "depth"
	flagWorkers    = "workers"
	flagSeed       = "seed"
	flagEmission   = "emission"
	flagOutput     = "output"
	flagHorizon    = "horizon"
	flagZenith     = "zenith"
	flagTextureDir = "texture-dir"
	flagDebug      = "debug"
	flagNoProgress = "no-progress"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp(stdout io.Writer) *cli.App {
	defaults := renderer.DefaultSamplingConfig()

	return &cli.App{
		Name:   "pathtracer",
		Usage:  "render Monte Carlo path traced sphere scenes",
		Writer: stdout,
		Commands: []*cli.Command{
			{
				Name:   "render",
				Usage:  "render a scene preset to one or more image files",
				Action: renderAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagScene, Aliases: []string{"s"}, Value: "cover", Usage: "scene preset `NAME` (see the scenes command)"},
					&cli.IntFlag{Name: flagWidth, Usage: "image width in pixels (0 = scene default)"},
					&cli.IntFlag{Name: flagHeight, Usage: "image height in pixels (0 = scene default)"},
					&cli.IntFlag{Name: flagSamples, Value: defaults.SamplesPerPixel, Usage: "samples per pixel"},
					&cli.IntFlag{Name: flagDepth, Value: defaults.MaxDepth, Usage: "maximum bounces per path"},
					&cli.IntFlag{Name: flagWorkers, Value: defaults.NumWorkers, Usage: "parallel workers (0 = one per CPU)"},
					&cli.Int64Flag{Name: flagSeed, Value: defaults.Seed, Usage: "seed for the scene layout and the sampler"},
					&cli.BoolFlag{Name: flagEmission, Usage: "add light emitted by surfaces to the image"},
					&cli.StringSliceFlag{Name: flagOutput, Aliases: []string{"o"}, Usage: "output `FILE`; the extension picks the format (png, jpg, gif, tif, bmp, ppm). Repeatable"},
					&cli.StringFlag{Name: flagHorizon, Usage: "sky color looking down, as hex (e.g. #ffffff)"},
					&cli.StringFlag{Name: flagZenith, Usage: "sky color looking up, as hex (e.g. #80b3ff)"},
					&cli.StringFlag{Name: flagTextureDir, Value: "textures", Usage: "`DIR` holding image textures"},
					&cli.BoolFlag{Name: flagDebug, Usage: "enable debug logging"},
					&cli.BoolFlag{Name: flagNoProgress, Usage: "hide the progress bar"},
				},
			},
			{
				Name:   "scenes",
				Usage:  "list the available scene presets",
				Action: scenesAction,
			},
		},
	}
}

func scenesAction(c *cli.Context) error {
	for _, info := range scene.List() {
		fmt.Fprintf(c.App.Writer, "%-16s %s\n", info.Name, info.Description)
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	return config.Build()
}

// parseColor converts a hex sRGB color to a linear Vec3
func parseColor(hex string) (core.Vec3, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return core.Vec3{}, errors.Wrapf(err, "invalid color %q", hex)
	}
	r, g, b := c.LinearRgb()
	return core.NewVec3(r, g, b), nil
}

func backgroundFromFlags(c *cli.Context, background renderer.Background) (renderer.Background, error) {
	if hex := c.String(flagHorizon); hex != "" {
		color, err := parseColor(hex)
		if err != nil {
			return background, err
		}
		background.Horizon = color
	}
	if hex := c.String(flagZenith); hex != "" {
		color, err := parseColor(hex)
		if err != nil {
			return background, err
		}
		background.Zenith = color
	}
	return background, nil
}

// imageSize resolves the output size. A single given dimension keeps the
// scene's aspect ratio; zero means unset.
func imageSize(width, height int, s *scene.Scene) (int, int) {
	switch {
	case width > 0 && height > 0:
		return width, height
	case width > 0:
		return width, max(1, int(math.Round(float64(width)/s.AspectRatio())))
	case height > 0:
		return max(1, int(math.Round(float64(height)*s.AspectRatio()))), height
	default:
		return s.Width, s.Height
	}
}

func renderAction(c *cli.Context) error {
	zl, err := newLogger(c.Bool(flagDebug))
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}
	defer zl.Sync() //nolint:errcheck
	logger := zl.Sugar()

	seed := c.Int64(flagSeed)
	sceneName := c.String(flagScene)
	s, err := scene.Build(sceneName, seed, scene.Options{TextureDir: c.String(flagTextureDir)})
	if err != nil {
		return err
	}

	width, height := imageSize(c.Int(flagWidth), c.Int(flagHeight), s)

	if err := s.Camera.Validate(); err != nil {
		return errors.Wrap(err, "invalid camera")
	}
	camera := renderer.NewCamera(s.Camera, float64(width)/float64(height))

	world, err := s.World(rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	if bvh, ok := world.(*core.BVH); ok {
		stats := bvh.Stats()
		logger.Debugf("Built BVH: %d objects, %d nodes, depth %d", stats.Objects, stats.Nodes, stats.MaxDepth)
	}

	background, err := backgroundFromFlags(c, s.Background)
	if err != nil {
		return err
	}

	config := renderer.SamplingConfig{
		SamplesPerPixel:    c.Int(flagSamples),
		MaxDepth:           c.Int(flagDepth),
		NumWorkers:         c.Int(flagWorkers),
		Seed:               seed,
		AccumulateEmission: c.Bool(flagEmission),
	}
	rt, err := renderer.NewRaytracer(world, camera, width, height, config)
	if err != nil {
		return err
	}
	rt.SetBackground(background)
	rt.SetLogger(logger)

	var bar *pterm.ProgressbarPrinter
	if !c.Bool(flagNoProgress) {
		bar, err = pterm.DefaultProgressbar.WithTotal(height).WithTitle("Rendering " + sceneName).Start()
		if err != nil {
			return errors.Wrap(err, "failed to start progress bar")
		}
		rt.SetProgress(func(completedRows, totalRows int) {
			bar.Increment()
		})
	}

	frame, stats := rt.Render()
	if bar != nil {
		if _, err := bar.Stop(); err != nil {
			logger.Warnf("failed to stop progress bar: %v", err)
		}
	}
	logger.Infof("Rendered %d samples in %v (%.0f samples/s)", stats.TotalSamples, stats.Duration, stats.SamplesPerSecond())

	outputs := c.StringSlice(flagOutput)
	if len(outputs) == 0 {
		outputs = []string{filepath.Join("output", sceneName+".png")}
	}
	return writeOutputs(output.ToImage(frame), outputs, logger)
}

// writeOutputs saves every requested file concurrently; the first failure is returned.
// Repeated paths are written once.
func writeOutputs(img image.Image, paths []string, logger core.Logger) error {
	var g errgroup.Group
	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		path = filepath.Clean(path)
		if seen[path] {
			continue
		}
		seen[path] = true

		path := path
		g.Go(func() error {
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return errors.Wrapf(err, "failed to create output directory %q", dir)
				}
			}
			if err := output.Save(path, img); err != nil {
				return errors.Wrapf(err, "failed to write %q", path)
			}
			logger.Infof("Render saved as %s", path)
			return nil
		})
	}
	return g.Wait()
}
