package draw

import (
	"image"
	"image/color"
	stddraw "image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa is the cubic Bézier control distance for a quarter circle.
const kappa = 0.5522847498

// ImageSurface draws onto an in-memory RGBA image through a vector rasterizer.
// Logical coordinates are multiplied by scale to get image pixels.
type ImageSurface struct {
	img    *image.RGBA
	raster *vector.Rasterizer
	path   []pathOp
	scale  float64

	logicalWidth  float64
	logicalHeight float64

	fill      color.Color
	stroke    color.Color
	lineWidth float64
}

// Ensure ImageSurface satisfies Surface.
var _ Surface = (*ImageSurface)(nil)

// NewImageSurface creates a surface of logicalWidth x logicalHeight units
// rendered at scale pixels per unit.
func NewImageSurface(logicalWidth, logicalHeight int, scale float64) *ImageSurface {
	if scale <= 0 {
		scale = 1
	}
	w := max(int(math.Ceil(float64(logicalWidth)*scale)), 0)
	h := max(int(math.Ceil(float64(logicalHeight)*scale)), 0)
	return &ImageSurface{
		img:           image.NewRGBA(image.Rect(0, 0, w, h)),
		raster:        vector.NewRasterizer(0, 0),
		scale:         scale,
		logicalWidth:  float64(logicalWidth),
		logicalHeight: float64(logicalHeight),
		fill:          color.White,
		stroke:        color.White,
		lineWidth:     1,
	}
}

// Image returns the backing image.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// SetFillColor sets the colour used by FillCircle and FillPolygon.
func (s *ImageSurface) SetFillColor(c color.Color) {
	s.fill = c
}

// SetStrokeColor sets the colour used by Line.
func (s *ImageSurface) SetStrokeColor(c color.Color) {
	s.stroke = c
}

// SetLineWidth sets the stroke width in logical units.
func (s *ImageSurface) SetLineWidth(width float64) {
	s.lineWidth = width
}

// FillGradient paints every pixel from the gradient.
func (s *ImageSurface) FillGradient(g Gradient) {
	b := s.img.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py++ {
		ly := (float64(py) + 0.5) / s.scale
		for px := b.Min.X; px < b.Max.X; px++ {
			lx := (float64(px) + 0.5) / s.scale
			r, gr, bl := g.AtPoint(lx, ly, s.logicalWidth, s.logicalHeight).Clamped().RGB255()
			s.img.SetRGBA(px, py, color.RGBA{R: r, G: gr, B: bl, A: 0xff})
		}
	}
}

func (s *ImageSurface) pt(x, y float64) vec {
	return vec{float32(x * s.scale), float32(y * s.scale)}
}

type vec struct{ x, y float32 }

type pathKind uint8

const (
	pathMove pathKind = iota
	pathLine
	pathCube
)

// pathOp is one recorded path segment in image pixels. Move and line use
// pts[0]; a cubic uses all three.
type pathOp struct {
	kind pathKind
	pts  [3]vec
}

// begin starts a new path.
func (s *ImageSurface) begin() {
	s.path = s.path[:0]
}

func (s *ImageSurface) moveTo(x, y float64) {
	s.path = append(s.path, pathOp{kind: pathMove, pts: [3]vec{s.pt(x, y)}})
}

func (s *ImageSurface) lineTo(x, y float64) {
	s.path = append(s.path, pathOp{kind: pathLine, pts: [3]vec{s.pt(x, y)}})
}

func (s *ImageSurface) cubeTo(bx, by, cx, cy, dx, dy float64) {
	s.path = append(s.path, pathOp{kind: pathCube, pts: [3]vec{s.pt(bx, by), s.pt(cx, cy), s.pt(dx, dy)}})
}

// bounds returns the pixel rectangle covering the recorded path, clipped to
// the image. Control points bound their curves, so covering them is enough.
func (s *ImageSurface) bounds() image.Rectangle {
	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, op := range s.path {
		n := 1
		if op.kind == pathCube {
			n = 3
		}
		for _, p := range op.pts[:n] {
			minX, maxX = min(minX, p.x), max(maxX, p.x)
			minY, maxY = min(minY, p.y), max(maxY, p.y)
		}
	}
	if !(minX <= maxX && minY <= maxY) {
		return image.Rectangle{}
	}
	// Clamp before converting so far off-image points cannot overflow int.
	b := s.img.Bounds()
	clamp := func(v float32, lo, hi int) float64 { return float64(min(max(v, float32(lo)), float32(hi))) }
	r := image.Rect(
		int(math.Floor(clamp(minX, b.Min.X, b.Max.X))),
		int(math.Floor(clamp(minY, b.Min.Y, b.Max.Y))),
		int(math.Ceil(clamp(maxX, b.Min.X, b.Max.X))),
		int(math.Ceil(clamp(maxY, b.Min.Y, b.Max.Y))),
	)
	return r.Intersect(b)
}

// paint rasterizes the recorded path inside its bounding box only and
// composites it with col.
func (s *ImageSurface) paint(col color.Color) {
	r := s.bounds()
	if r.Empty() {
		return
	}
	s.raster.Reset(r.Dx(), r.Dy())
	s.raster.DrawOp = stddraw.Over
	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	for _, op := range s.path {
		a, b, c := op.pts[0], op.pts[1], op.pts[2]
		switch op.kind {
		case pathMove:
			s.raster.MoveTo(a.x-ox, a.y-oy)
		case pathLine:
			s.raster.LineTo(a.x-ox, a.y-oy)
		case pathCube:
			s.raster.CubeTo(a.x-ox, a.y-oy, b.x-ox, b.y-oy, c.x-ox, c.y-oy)
		}
	}
	s.raster.ClosePath()
	s.raster.Draw(s.img, r, image.NewUniform(col), r.Min)
}

func transparent(c color.Color) bool {
	if c == nil {
		return true
	}
	_, _, _, a := c.RGBA()
	return a == 0
}

// FillCircle fills a disk built from four cubic Bézier arcs.
func (s *ImageSurface) FillCircle(x, y, radius float64) {
	if radius <= 0 || transparent(s.fill) {
		return
	}
	s.begin()
	k := radius * kappa
	s.moveTo(x+radius, y)
	s.cubeTo(x+radius, y+k, x+k, y+radius, x, y+radius)
	s.cubeTo(x-k, y+radius, x-radius, y+k, x-radius, y)
	s.cubeTo(x-radius, y-k, x-k, y-radius, x, y-radius)
	s.cubeTo(x+k, y-radius, x+radius, y-k, x+radius, y)
	s.paint(s.fill)
}

// Line strokes a segment as a quad offset by half the line width on each side.
func (s *ImageSurface) Line(p1, p2 Point) {
	if transparent(s.stroke) {
		return
	}
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	half := math.Max(s.lineWidth, 1/s.scale) / 2
	nx, ny := -dy/length*half, dx/length*half

	s.begin()
	s.moveTo(p1.X+nx, p1.Y+ny)
	s.lineTo(p2.X+nx, p2.Y+ny)
	s.lineTo(p2.X-nx, p2.Y-ny)
	s.lineTo(p1.X-nx, p1.Y-ny)
	s.paint(s.stroke)
}

// FillPolygon fills a closed polygon.
func (s *ImageSurface) FillPolygon(points []Point) {
	if len(points) < 3 || transparent(s.fill) {
		return
	}
	s.begin()
	s.moveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		s.lineTo(p.X, p.Y)
	}
	s.paint(s.fill)
}
