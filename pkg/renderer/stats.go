package renderer

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int
	Height          int
	SamplesPerPixel int           // Samples taken for every pixel
	TotalSamples    int           // Total number of camera rays traced
	Workers         int           // Number of parallel workers used
	Duration        time.Duration // Wall-clock render time
	MeanLuminance   float64       // Mean pixel luminance of the linear frame
	StdDevLuminance float64       // Standard deviation of pixel luminance
}

// SamplesPerSecond returns camera-ray throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

func computeStats(frame *Frame, samplesPerPixel, workers int, duration time.Duration) RenderStats {
	stats := RenderStats{
		Width:           frame.Width,
		Height:          frame.Height,
		SamplesPerPixel: samplesPerPixel,
		TotalSamples:    frame.Width * frame.Height * samplesPerPixel,
		Workers:         workers,
		Duration:        duration,
	}

	luminance := make([]float64, 0, frame.Width*frame.Height)
	for _, row := range frame.Pixels {
		for _, pixel := range row {
			luminance = append(luminance, pixel.Luminance())
		}
	}
	if len(luminance) > 1 {
		stats.MeanLuminance, stats.StdDevLuminance = stat.MeanStdDev(luminance, nil)
	} else if len(luminance) == 1 {
		stats.MeanLuminance = luminance[0]
	}
	return stats
}
