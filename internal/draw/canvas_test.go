package draw

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{}
)

func TestNewCanvasIsUnscaled(t *testing.T) {
	c := NewCanvas(40, 10)
	assert.Equal(t, 40.0, c.LogicalWidth())
	assert.Equal(t, 20.0, c.LogicalHeight())

	c.Resize(60, 20)
	assert.Equal(t, 60.0, c.LogicalWidth())
	assert.Equal(t, 40.0, c.LogicalHeight())
	assert.Equal(t, 60, c.TerminalWidth())
	assert.Equal(t, 20, c.TerminalHeight())

	s := NewScaledCanvas(40, 10, 120, 80)
	s.Resize(60, 20)
	assert.Equal(t, 120.0, s.LogicalWidth(), "scaled canvas keeps logical size")
}

func TestFillCircleOpaque(t *testing.T) {
	c := NewCanvas(20, 10)
	c.SetFillColor(color.White)
	c.FillCircle(10, 10, 2)

	assert.Equal(t, white, c.At(10, 10))
	assert.Equal(t, white, c.At(12, 10))
	assert.Equal(t, black, c.At(13, 10))
	assert.Equal(t, black, c.At(12, 12), "corner outside radius")
}

func TestTinyCircleStillPaints(t *testing.T) {
	c := NewCanvas(20, 10)
	c.SetFillColor(color.White)
	c.FillCircle(5.2, 5.3, 0.1)
	assert.Equal(t, white, c.At(5, 5))
}

func TestAlphaCompositesOncePerPrimitive(t *testing.T) {
	c := NewCanvas(20, 10)
	c.SetStrokeColor(color.NRGBA{R: 255, G: 255, B: 255, A: 128})
	c.SetLineWidth(3)
	c.Line(Point{X: 2, Y: 5}, Point{X: 15, Y: 5})

	got := c.At(8, 5)
	assert.InDelta(t, 128.0/255, got.R, 1e-6, "wide brush overlap blends once")

	c.Line(Point{X: 2, Y: 5}, Point{X: 15, Y: 5})
	got = c.At(8, 5)
	assert.Greater(t, got.R, 0.7, "second primitive blends again")
}

func TestFillPolygon(t *testing.T) {
	c := NewCanvas(20, 10)
	c.SetFillColor(color.NRGBA{G: 255, A: 255})
	c.FillPolygon([]Point{{X: 2, Y: 2}, {X: 12, Y: 2}, {X: 2, Y: 12}})

	assert.Equal(t, colorful.Color{G: 1}, c.At(4, 4))
	assert.Equal(t, black, c.At(11, 11))

	c.FillPolygon([]Point{{X: 1, Y: 1}, {X: 2, Y: 2}})
}

func TestTransparentColoursDrawNothing(t *testing.T) {
	c := NewCanvas(10, 5)
	c.SetFillColor(color.NRGBA{R: 255})
	c.FillCircle(5, 5, 3)
	c.SetStrokeColor(color.Transparent)
	c.Line(Point{}, Point{X: 9, Y: 9})
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			require.Equal(t, black, c.At(x, y))
		}
	}
}

func TestFillGradientCoversCanvas(t *testing.T) {
	c := NewCanvas(10, 5)
	g := DefaultGradient()
	c.FillGradient(g)
	assert.Equal(t, g.At(0), c.At(0, 0))
	assert.NotEqual(t, c.At(0, 0), c.At(9, 9))
}

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewCanvas(4, 2)
	c.SetProfile(termenv.TrueColor)
	var buf bytes.Buffer

	c.Render(&buf)
	first := buf.String()
	assert.Equal(t, 8, strings.Count(first, string(BlockUpperHalf)), "first frame draws all cells")
	assert.Contains(t, first, "\033[1;1H")
	assert.Contains(t, first, "38;2;0;0;0")

	buf.Reset()
	c.Render(&buf)
	assert.Empty(t, buf.String(), "nothing changed")

	c.SetFillColor(color.White)
	c.FillCircle(2, 2, 0.1)
	buf.Reset()
	c.Render(&buf)
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, string(BlockUpperHalf)))
	assert.Contains(t, out, "\033[2;3H")
	assert.Contains(t, out, "38;2;255;255;255")

	c.ForceRedraw()
	buf.Reset()
	c.Render(&buf)
	assert.Equal(t, 8, strings.Count(buf.String(), string(BlockUpperHalf)))
}

func TestRenderAppliesOffset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetOffset(3, 2)
	var buf bytes.Buffer
	c.Render(&buf)
	assert.True(t, strings.HasPrefix(buf.String(), "\033[3;4H"))

	buf.Reset()
	c.RenderBorder(&buf)
	assert.Contains(t, buf.String(), "┌──┐")
}

func TestRenderAsciiUsesShades(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetProfile(termenv.Ascii)
	c.FillGradient(Gradient{Stops: []GradientStop{{Pos: 0, Color: white}}})
	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()
	assert.NotContains(t, out, string(BlockUpperHalf))
	assert.Equal(t, 2, strings.Count(out, "█"))
}

func TestMarkTextDirty(t *testing.T) {
	c := NewCanvas(4, 2)
	var buf bytes.Buffer
	c.Render(&buf)

	c.MarkTextDirty(2, 1, 2)
	buf.Reset()
	c.Render(&buf)
	assert.Equal(t, 2, strings.Count(buf.String(), string(BlockUpperHalf)))
}

func TestShadeLevel(t *testing.T) {
	assert.Equal(t, ' ', ShadeLevel(-1))
	assert.Equal(t, '█', ShadeLevel(1))
	assert.Equal(t, '▒', ShadeLevel(0.5))
}
