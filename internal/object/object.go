// Package object defines the particles that populate the wallpaper field and
// the surface geometry they move in.
package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/termwall/internal/physics"
)

// Screen represents the drawing surface dimensions in logical units.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen creates a Screen, clamping negative dimensions to zero.
func NewScreen(width, height int) Screen {
	width = max(width, 0)
	height = max(height, 0)
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
}

// Area returns width * height.
func (s Screen) Area() float64 {
	return float64(s.Width) * float64(s.Height)
}

// WrapPosition moves a coordinate that stepped past an edge onto the opposite
// edge: x < 0 becomes x = width, x > width becomes x = 0, likewise for y.
func (s Screen) WrapPosition(x, y *float64) {
	w := float64(s.Width)
	h := float64(s.Height)

	if *x < 0 {
		*x = w
	} else if *x > w {
		*x = 0
	}
	if *y < 0 {
		*y = h
	} else if *y > h {
		*y = 0
	}
}

// Contains reports whether (x, y) lies inside the surface, edges included.
func (s Screen) Contains(x, y float64) bool {
	return x >= 0 && x <= float64(s.Width) && y >= 0 && y <= float64(s.Height)
}

// DistanceFromCenter returns the Euclidean distance from (x, y) to the surface center.
func (s Screen) DistanceFromCenter(x, y float64) float64 {
	return physics.Distance(x, y, float64(s.Width)/2, float64(s.Height)/2)
}

// Reach is how far from the center a particle that has not yet entered the
// surface may drift before it is discarded.
func (s Screen) Reach() float64 {
	return 1.5 * float64(max(s.Width, s.Height))
}

// UpdateContext provides what a particle needs during a tick.
type UpdateContext struct {
	Now    time.Time
	Screen Screen
}

// Range is an inclusive [Min, Max] interval sampled uniformly.
type Range struct {
	Min, Max float64
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Sample returns a uniform value in [Min, Max).
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
