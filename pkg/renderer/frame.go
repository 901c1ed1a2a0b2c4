package renderer

import "github.com/df07/go-pathtracer/pkg/core"

// Frame is a row-major grid of linear colors. Pixels[0] is the top row.
type Frame struct {
	Width  int
	Height int
	Pixels [][]core.Vec3
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	pixels := make([][]core.Vec3, height)
	for y := range pixels {
		pixels[y] = make([]core.Vec3, width)
	}
	return &Frame{Width: width, Height: height, Pixels: pixels}
}

// At returns the color at column x, row y (y = 0 at the top)
func (f *Frame) At(x, y int) core.Vec3 {
	return f.Pixels[y][x]
}
