package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// SolidColor provides a uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color texture
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Value returns the solid color regardless of UV or position
func (s *SolidColor) Value(u, v float64, point core.Vec3) core.Vec3 {
	return s.Color
}

// DefaultCheckerScale is the spatial frequency used by NewChecker
const DefaultCheckerScale = 10.0

// Checker is a 3D procedural checkerboard driven by the hit point, not UV
type Checker struct {
	Odd, Even core.Vec3
	Scale     float64
}

// NewChecker creates a checker texture with the default scale
func NewChecker(odd, even core.Vec3) *Checker {
	return &Checker{Odd: odd, Even: even, Scale: DefaultCheckerScale}
}

// Value picks Odd where the product of sines is negative
func (c *Checker) Value(u, v float64, point core.Vec3) core.Vec3 {
	sines := math.Sin(c.Scale*point.X) * math.Sin(c.Scale*point.Y) * math.Sin(c.Scale*point.Z)
	if sines < 0 {
		return c.Odd
	}
	return c.Even
}

// StarTexture scatters white points over UV space using a hash of (u, v)
type StarTexture struct {
	Threshold float64
}

// NewStarTexture creates a star field where roughly a fifth of the UV cells are lit
func NewStarTexture() *StarTexture {
	return &StarTexture{Threshold: 0.8}
}

// Value returns white where the hash exceeds the threshold and black elsewhere
func (s *StarTexture) Value(u, v float64, point core.Vec3) core.Vec3 {
	if hash12(u, v) > s.Threshold {
		return core.NewVec3(1, 1, 1)
	}
	return core.Vec3{}
}

// hash12 maps two floats to a pseudo-random value in (-1, 1)
func hash12(a, b float64) float64 {
	p := core.NewVec3(fract(a*0.1031), fract(b*0.1031), fract(a*0.1031))
	add := p.Dot(core.NewVec3(p.Y+33.33, p.Z+33.33, p.X+33.33))
	p = p.Add(core.NewVec3(add, add, add))
	return fract((p.X + p.Y) * p.Z)
}

// fract keeps the sign of x, so fract(-1.25) = -0.25
func fract(x float64) float64 {
	_, frac := math.Modf(x)
	return frac
}
