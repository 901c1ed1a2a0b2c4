// Package output turns rendered frames into 8-bit images and writes them to disk.
package output

import (
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Format names an output encoding
type Format string

// Supported output formats
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
	FormatPPM  Format = "ppm"
)

// FormatFromFilename picks the format from a file extension
func FormatFromFilename(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".gif":
		return FormatGIF, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".bmp":
		return FormatBMP, nil
	case ".ppm":
		return FormatPPM, nil
	default:
		return "", errors.Errorf("unsupported output format %q", filepath.Ext(filename))
	}
}

// ToRGBA gamma-encodes a linear color with a square root and quantizes it to 8 bits.
// Channels are clamped to [0, 1] first; NaN channels map to 0.
func ToRGBA(pixel core.Vec3) color.RGBA {
	gamma := pixel.Clamp(0, 1).Sqrt()
	return color.RGBA{
		R: quantize(gamma.X),
		G: quantize(gamma.Y),
		B: quantize(gamma.Z),
		A: 255,
	}
}

func quantize(c float64) uint8 {
	if !(c > 0) {
		return 0
	}
	return uint8(c * 255.999)
}

// ToImage converts a linear frame to an 8-bit image. Frame row 0 becomes image row 0.
func ToImage(frame *renderer.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y, row := range frame.Pixels {
		for x, pixel := range row {
			img.SetRGBA(x, y, ToRGBA(pixel))
		}
	}
	return img
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPPM:
		err = ppm.Encode(w, img)
	case FormatPNG:
		err = imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(95))
	case FormatGIF:
		err = imaging.Encode(w, img, imaging.GIF)
	case FormatTIFF:
		err = imaging.Encode(w, img, imaging.TIFF)
	case FormatBMP:
		err = imaging.Encode(w, img, imaging.BMP)
	default:
		return errors.Errorf("unsupported output format %q", format)
	}
	return errors.Wrapf(err, "failed to encode %s", format)
}

// Save writes img to filename, choosing the encoder from the extension
func Save(filename string, img image.Image) (err error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	return Encode(f, img, format)
}
