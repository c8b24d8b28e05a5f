// Package draw provides the drawing surfaces the wallpaper renders onto: a
// colour terminal canvas and an offscreen image.
package draw

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Surface is a drawing target in logical coordinates.
// Colours may carry alpha; shapes are composited over what is already drawn.
type Surface interface {
	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(width float64)

	// FillCircle fills a disk with the fill colour.
	FillCircle(x, y, radius float64)
	// Line strokes a segment with the stroke colour and line width.
	Line(p1, p2 Point)
	// FillPolygon fills a closed polygon with the fill colour.
	FillPolygon(points []Point)
	// FillGradient paints the whole surface, replacing its content.
	FillGradient(g Gradient)
}

// WithAlpha returns c with its alpha replaced by alpha in [0, 1].
func WithAlpha(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}

// splitAlpha separates a colour into its straight RGB part and alpha in [0, 1].
func splitAlpha(c color.Color) (colorful.Color, float64) {
	if c == nil {
		return colorful.Color{}, 0
	}
	_, _, _, a := c.RGBA()
	if a == 0 {
		return colorful.Color{}, 0
	}
	col, _ := colorful.MakeColor(c)
	return col, float64(a) / 0xffff
}

// GradientStop is a colour at a position in [0, 1] along a gradient.
type GradientStop struct {
	Pos   float64
	Color colorful.Color
}

// Gradient is a linear gradient from the top-left to the bottom-right corner.
type Gradient struct {
	Stops []GradientStop
}

// DefaultGradient is pink -> lavender -> cyan.
func DefaultGradient() Gradient {
	return Gradient{Stops: []GradientStop{
		{Pos: 0, Color: colorful.Color{R: 255 / 255.0, G: 100 / 255.0, B: 180 / 255.0}},
		{Pos: 0.5, Color: colorful.Color{R: 200 / 255.0, G: 160 / 255.0, B: 255 / 255.0}},
		{Pos: 1, Color: colorful.Color{R: 0, G: 1, B: 1}},
	}}
}

// NewGradient builds a gradient with evenly spaced stops from hex colours.
func NewGradient(hexColors ...string) (Gradient, error) {
	var g Gradient
	for i, hex := range hexColors {
		col, err := colorful.Hex(hex)
		if err != nil {
			return Gradient{}, fmt.Errorf("gradient stop %d: %w", i, err)
		}
		pos := 0.0
		if len(hexColors) > 1 {
			pos = float64(i) / float64(len(hexColors)-1)
		}
		g.Stops = append(g.Stops, GradientStop{Pos: pos, Color: col})
	}
	return g, nil
}

// At returns the colour at position t, clamped to the first and last stops.
func (g Gradient) At(t float64) colorful.Color {
	if len(g.Stops) == 0 {
		return colorful.Color{}
	}
	first := g.Stops[0]
	if t <= first.Pos {
		return first.Color
	}
	for i := 1; i < len(g.Stops); i++ {
		prev, next := g.Stops[i-1], g.Stops[i]
		if t <= next.Pos {
			span := next.Pos - prev.Pos
			if span <= 0 {
				return next.Color
			}
			return prev.Color.BlendRgb(next.Color, (t-prev.Pos)/span)
		}
	}
	return g.Stops[len(g.Stops)-1].Color
}

// AtPoint returns the colour at (x, y) on a width x height surface, projecting
// the point onto the diagonal from (0, 0) to (width, height).
func (g Gradient) AtPoint(x, y, width, height float64) colorful.Color {
	denom := width*width + height*height
	if denom == 0 {
		return g.At(0)
	}
	return g.At((x*width + y*height) / denom)
}
