package field

import (
	"time"

	"github.com/tomz197/termwall/internal/draw"
)

// Render draws the field back to front: triangles, edges, then particles.
// The background is left to the caller.
//
// When fading is enabled a shape's opacity is scaled by 1 - the highest
// lifetime progress among its particles, and particle disks shrink to half
// their radius as they age. Particles that have not entered the surface are
// drawn opaque at full size.
func (f *Field) Render(s draw.Surface, now time.Time) {
	fading := f.cfg.Fading()
	var tri [3]draw.Point

	for _, t := range f.triangles {
		a, b, c := f.particles[t.A], f.particles[t.B], f.particles[t.C]
		alpha := f.cfg.TriangleOpacity
		if fading {
			alpha *= 1 - max(a.Progress(now), b.Progress(now), c.Progress(now))
		}
		s.SetFillColor(draw.WithAlpha(f.cfg.Color, alpha))
		tri[0] = draw.Point{X: a.X, Y: a.Y}
		tri[1] = draw.Point{X: b.X, Y: b.Y}
		tri[2] = draw.Point{X: c.X, Y: c.Y}
		s.FillPolygon(tri[:])
	}

	s.SetLineWidth(f.cfg.LineWidth)
	for _, e := range f.edges {
		a, b := f.particles[e.A], f.particles[e.B]
		alpha := f.cfg.LineOpacity
		if fading {
			alpha *= 1 - max(a.Progress(now), b.Progress(now))
		}
		s.SetStrokeColor(draw.WithAlpha(f.cfg.Color, alpha))
		s.Line(draw.Point{X: a.X, Y: a.Y}, draw.Point{X: b.X, Y: b.Y})
	}

	for _, p := range f.particles {
		alpha, radius := f.cfg.ParticleOpacity, p.Radius
		switch {
		case !p.Entered:
			alpha = 1
		case fading:
			progress := p.Progress(now)
			alpha = 1 - progress
			radius *= 1 - 0.5*progress
		}
		s.SetFillColor(draw.WithAlpha(f.cfg.Color, alpha))
		s.FillCircle(p.X, p.Y, radius)
	}
}
