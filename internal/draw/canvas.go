package draw

import (
	"image/color"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/tomz197/termwall/internal/physics"
)

// Shade characters from lightest to darkest, used when the terminal has no colour.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(math.Round(intensity * float64(len(Shades)-1)))
	return Shades[idx]
}

// BlockUpperHalf is drawn with the top sub-pixel as foreground and the bottom as background.
const BlockUpperHalf = '▀'

// cell is a rendered terminal cell: packed 24-bit top and bottom colours.
type cell struct {
	top, bottom uint32
}

// Canvas is a colour drawing buffer with 2x vertical resolution using
// half-block characters. Supports scaling from logical coordinates to actual
// terminal pixels.
type Canvas struct {
	termWidth      int              // Actual terminal columns
	termHeight     int              // Actual terminal rows
	subPixelHeight int              // termHeight * 2
	pixels         []colorful.Color // Flat slice: [y * termWidth + x]

	// Scaling from logical to pixel coordinates
	scaled        bool    // Logical size fixed independently of the terminal
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height (in sub-pixels)
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Current drawing state
	fill      colorful.Color
	fillA     float64
	stroke    colorful.Color
	strokeA   float64
	lineWidth float64

	// Each primitive composites a pixel at most once: marks[i] == gen when
	// pixel i was already blended by the current primitive.
	marks []uint32
	gen   uint32

	profile     termenv.Profile
	prev        []cell // Last frame sent to the terminal
	forceRedraw bool

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder // Buffer for batching render output
	scaledBuf       []Point         // Reusable buffer for fillPolygon scaled points
	intersectionBuf []float64       // Reusable buffer for scanline intersections
	numBuf          [20]byte
}

// Ensure Canvas satisfies Surface.
var _ Surface = (*Canvas)(nil)

// NewCanvas creates a canvas for the given terminal dimensions.
// The canvas has 2x vertical resolution (height*2 sub-pixels) and logical
// coordinates follow the terminal: one logical unit per sub-pixel.
func NewCanvas(width, height int) *Canvas {
	c := NewScaledCanvas(width, height, float64(width), float64(height*2))
	c.scaled = false
	return c
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by the field.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		scaled:        true,
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		lineWidth:     1,
		fillA:         1,
		strokeA:       1,
		fill:          colorful.Color{R: 1, G: 1, B: 1},
		stroke:        colorful.Color{R: 1, G: 1, B: 1},
		profile:       termenv.TrueColor,
	}
	c.allocate(termWidth, termHeight)
	return c
}

func (c *Canvas) allocate(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	subPixelHeight := termHeight * 2

	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = subPixelHeight
	c.pixels = make([]colorful.Color, subPixelHeight*termWidth)
	c.marks = make([]uint32, subPixelHeight*termWidth)
	c.prev = make([]cell, termHeight*termWidth)
	c.forceRedraw = true
	c.updateScale()
}

func (c *Canvas) updateScale() {
	if !c.scaled {
		c.logicalWidth = float64(c.termWidth)
		c.logicalHeight = float64(c.subPixelHeight)
	}
	c.scaleX, c.scaleY = 1, 1
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// Resize updates the canvas for new terminal dimensions. A scaled canvas keeps
// its logical size; an unscaled one follows the terminal.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.allocate(termWidth, termHeight)
		return
	}
	c.updateScale()
}

// SetProfile selects how colours are encoded on output.
// termenv.Ascii renders shade characters by luminance instead of colours.
func (c *Canvas) SetProfile(p termenv.Profile) {
	if p != c.profile {
		c.profile = p
		c.forceRedraw = true
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.forceRedraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render emit every cell, e.g. after the terminal
// was cleared.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// MarkTextDirty invalidates cells covered by text written over the canvas so
// the next Render repaints them. col and row are 1-based canvas coordinates.
func (c *Canvas) MarkTextDirty(col, row, length int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for i := col - 1; i < col-1+length; i++ {
		if i >= 0 && i < c.termWidth {
			// No packed colour has the top byte set.
			c.prev[r*c.termWidth+i] = cell{top: math.MaxUint32}
		}
	}
}

// SetFillColor sets the colour used by FillCircle and FillPolygon.
func (c *Canvas) SetFillColor(col color.Color) {
	c.fill, c.fillA = splitAlpha(col)
}

// SetStrokeColor sets the colour used by Line.
func (c *Canvas) SetStrokeColor(col color.Color) {
	c.stroke, c.strokeA = splitAlpha(col)
}

// SetLineWidth sets the stroke width in logical units.
func (c *Canvas) SetLineWidth(width float64) {
	c.lineWidth = width
}

// At returns the pixel colour at actual terminal sub-pixel coordinates.
func (c *Canvas) At(x, y int) colorful.Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return colorful.Color{}
	}
	return c.pixels[y*c.termWidth+x]
}

// begin starts a new primitive so every pixel is composited at most once.
func (c *Canvas) begin() {
	c.gen++
	if c.gen == 0 {
		clear(c.marks)
		c.gen = 1
	}
}

// blendPixel composites col with alpha over the pixel at actual terminal coordinates.
func (c *Canvas) blendPixel(x, y int, col colorful.Color, alpha float64) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return
	}
	i := y*c.termWidth + x
	if c.marks[i] == c.gen {
		return
	}
	c.marks[i] = c.gen
	if alpha >= 1 {
		c.pixels[i] = col
		return
	}
	c.pixels[i] = c.pixels[i].BlendRgb(col, alpha)
}

// toPixel scales logical coordinates to the nearest pixel.
func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Round(x * c.scaleX)), int(math.Round(y * c.scaleY))
}

// FillGradient paints every pixel from the gradient.
func (c *Canvas) FillGradient(g Gradient) {
	for py := 0; py < c.subPixelHeight; py++ {
		ly := float64(py) / c.scaleY
		for px := 0; px < c.termWidth; px++ {
			lx := float64(px) / c.scaleX
			c.pixels[py*c.termWidth+px] = g.AtPoint(lx, ly, c.logicalWidth, c.logicalHeight)
		}
	}
}

// FillCircle fills a disk. Pixel centres inside the circle are painted; a
// circle smaller than a pixel still paints its nearest pixel.
func (c *Canvas) FillCircle(x, y, radius float64) {
	if c.fillA <= 0 || radius <= 0 {
		return
	}
	c.begin()

	x0 := int(math.Floor((x - radius) * c.scaleX))
	x1 := int(math.Ceil((x + radius) * c.scaleX))
	y0 := int(math.Floor((y - radius) * c.scaleY))
	y1 := int(math.Ceil((y + radius) * c.scaleY))

	painted := false
	for py := y0; py <= y1; py++ {
		ly := float64(py) / c.scaleY
		for px := x0; px <= x1; px++ {
			if physics.PointInCircle(float64(px)/c.scaleX, ly, x, y, radius) {
				c.blendPixel(px, py, c.fill, c.fillA)
				painted = true
			}
		}
	}
	if !painted {
		px, py := c.toPixel(x, y)
		c.blendPixel(px, py, c.fill, c.fillA)
	}
}

// Line draws a segment using Bresenham's algorithm. Widths above one pixel
// stamp a square brush along the path.
func (c *Canvas) Line(p1, p2 Point) {
	if c.strokeA <= 0 {
		return
	}
	c.begin()

	x1, y1 := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	brush := int(math.Round(c.lineWidth*math.Min(c.scaleX, c.scaleY))) / 2

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for by := -brush; by <= brush; by++ {
			for bx := -brush; bx <= brush; bx++ {
				c.blendPixel(x1+bx, y1+by, c.stroke, c.strokeA)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// FillPolygon fills a polygon using a scanline algorithm in pixel space.
func (c *Canvas) FillPolygon(points []Point) {
	if len(points) < 3 || c.fillA <= 0 {
		return
	}
	c.begin()

	// Reuse or grow scaled points buffer
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y)

		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.blendPixel(x, y, c.fill, c.fillA)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

func pack(col colorful.Color) uint32 {
	r, g, b := col.Clamped().RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func unpack(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// Render outputs the cells that changed since the previous Render using
// half-block characters: the top sub-pixel is the foreground colour, the
// bottom one the background.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	ascii := c.profile == termenv.Ascii
	// Sentinels that never match a packed colour.
	lastFG, lastBG := uint32(math.MaxUint32), uint32(math.MaxUint32)

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		positioned := false

		for col := 0; col < c.termWidth; col++ {
			cur := cell{
				top:    pack(c.pixels[topOffset+col]),
				bottom: pack(c.pixels[bottomOffset+col]),
			}
			idx := row*c.termWidth + col
			if !c.forceRedraw && c.prev[idx] == cur {
				positioned = false
				continue
			}
			c.prev[idx] = cur

			if !positioned {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
				positioned = true
			}

			if ascii {
				lum := (luminance(cur.top) + luminance(cur.bottom)) / 2
				c.renderBuf.WriteRune(ShadeLevel(lum))
				continue
			}

			if cur.top != lastFG {
				c.writeSGR(c.profile.FromColor(unpack(cur.top)).Sequence(false))
				lastFG = cur.top
			}
			if cur.bottom != lastBG {
				c.writeSGR(c.profile.FromColor(unpack(cur.bottom)).Sequence(true))
				lastBG = cur.bottom
			}
			c.renderBuf.WriteRune(BlockUpperHalf)
		}
	}
	c.forceRedraw = false

	if c.renderBuf.Len() == 0 {
		return
	}
	c.renderBuf.WriteString("\033[0m")

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

func (c *Canvas) writeSGR(seq string) {
	if seq == "" {
		return
	}
	c.renderBuf.WriteString("\033[")
	c.renderBuf.WriteString(seq)
	c.renderBuf.WriteByte('m')
}

// luminance returns the Rec. 601 luma of a packed colour in [0, 1].
func luminance(v uint32) float64 {
	c := unpack(v)
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	writeAt := func(col, row int, s string) {
		buf.WriteString("\033[")
		buf.WriteString(strconv.Itoa(row))
		buf.WriteByte(';')
		buf.WriteString(strconv.Itoa(col))
		buf.WriteByte('H')
		buf.WriteString(s)
	}

	if hasV {
		if hasH {
			writeAt(left, top, "┌"+bar+"┐")
			writeAt(left, bottom, "└"+bar+"┘")
		} else {
			writeAt(c.offsetCol+1, top, bar)
			writeAt(c.offsetCol+1, bottom, bar)
		}
	}

	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			writeAt(left, row, "│")
			writeAt(right, row, "│")
		}
	}

	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (in sub-pixels).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
