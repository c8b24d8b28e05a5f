package draw

import (
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradientEndpoints(t *testing.T) {
	g := DefaultGradient()

	r, gr, b := g.At(0).RGB255()
	assert.Equal(t, [3]uint8{255, 100, 180}, [3]uint8{r, gr, b})
	r, gr, b = g.At(0.5).RGB255()
	assert.Equal(t, [3]uint8{200, 160, 255}, [3]uint8{r, gr, b})
	r, gr, b = g.At(1).RGB255()
	assert.Equal(t, [3]uint8{0, 255, 255}, [3]uint8{r, gr, b})

	assert.Equal(t, g.At(0), g.At(-3), "clamped below")
	assert.Equal(t, g.At(1), g.At(7), "clamped above")
}

func TestGradientAtPointFollowsDiagonal(t *testing.T) {
	g := DefaultGradient()
	assert.Equal(t, g.At(0), g.AtPoint(0, 0, 100, 50))
	assert.Equal(t, g.At(1), g.AtPoint(100, 50, 100, 50))
	assert.True(t, g.At(0.5).AlmostEqualRgb(g.AtPoint(50, 25, 100, 50)))
	assert.Equal(t, g.At(0), g.AtPoint(3, 3, 0, 0), "degenerate surface")
}

func TestNewGradient(t *testing.T) {
	g, err := NewGradient("#000000", "#ffffff")
	require.NoError(t, err)
	require.Len(t, g.Stops, 2)
	mid := g.At(0.5)
	assert.InDelta(t, 0.5, mid.R, 1e-9)

	_, err = NewGradient("#000000", "nope")
	assert.Error(t, err)

	assert.Equal(t, colorful.Color{}, Gradient{}.At(0.3))
}

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(colorful.Color{R: 1, G: 0, B: 0}, 0.5)
	assert.Equal(t, color.NRGBA{R: 255, A: 128}, c)
	assert.Equal(t, uint8(255), WithAlpha(colorful.Color{}, 4).A)
	assert.Equal(t, uint8(0), WithAlpha(colorful.Color{}, -1).A)

	col, a := splitAlpha(color.NRGBA{R: 255, A: 255})
	assert.InDelta(t, 1.0, a, 1e-9)
	assert.InDelta(t, 1.0, col.R, 1e-9)
	_, a = splitAlpha(color.NRGBA{})
	assert.Zero(t, a)
}
