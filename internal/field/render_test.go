package field

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/termwall/internal/draw"
)

type recordedOp struct {
	kind   string
	alpha  float64
	radius float64
	points []draw.Point
}

// recorder is a draw.Surface that remembers what was drawn.
type recorder struct {
	fill, stroke color.Color
	width        float64
	ops          []recordedOp
}

func alphaOf(c color.Color) float64 {
	if c == nil {
		return 0
	}
	_, _, _, a := c.RGBA()
	return float64(a) / 0xffff
}

func (r *recorder) SetFillColor(c color.Color)   { r.fill = c }
func (r *recorder) SetStrokeColor(c color.Color) { r.stroke = c }
func (r *recorder) SetLineWidth(w float64)       { r.width = w }

func (r *recorder) FillCircle(x, y, radius float64) {
	r.ops = append(r.ops, recordedOp{kind: "circle", alpha: alphaOf(r.fill), radius: radius, points: []draw.Point{{X: x, Y: y}}})
}

func (r *recorder) Line(p1, p2 draw.Point) {
	r.ops = append(r.ops, recordedOp{kind: "line", alpha: alphaOf(r.stroke), points: []draw.Point{p1, p2}})
}

func (r *recorder) FillPolygon(points []draw.Point) {
	r.ops = append(r.ops, recordedOp{kind: "polygon", alpha: alphaOf(r.fill), points: append([]draw.Point(nil), points...)})
}

func (r *recorder) FillGradient(draw.Gradient) {
	r.ops = append(r.ops, recordedOp{kind: "gradient"})
}

func (r *recorder) shapes() []recordedOp {
	return r.ops
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, op := range r.ops {
		if op.kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) kinds() []string {
	var kinds []string
	for _, op := range r.ops {
		if len(kinds) == 0 || kinds[len(kinds)-1] != op.kind {
			kinds = append(kinds, op.kind)
		}
	}
	return kinds
}

func TestRenderOrder(t *testing.T) {
	cfg := graphConfig(100, 5)
	f := newTestField(cfg, 1000, 1000)
	place(f, clusterWithSpurs()...)
	f.ComputeConnections()
	f.FindTriangles()

	rec := &recorder{}
	f.Render(rec, epoch)
	assert.Equal(t, []string{"polygon", "line", "circle"}, rec.kinds())
	assert.Equal(t, 1, rec.count("polygon"))
	assert.Equal(t, 6, rec.count("line"))
	assert.Equal(t, 6, rec.count("circle"))
	assert.Equal(t, cfg.LineWidth, rec.width)
}

func TestRenderOpacityWithoutFading(t *testing.T) {
	cfg := graphConfig(100, 5)
	f := newTestField(cfg, 1000, 1000)
	place(f, clusterWithSpurs()...)
	f.ComputeConnections()
	f.FindTriangles()

	rec := &recorder{}
	f.Render(rec, epoch.Add(time.Hour))
	for _, op := range rec.ops {
		switch op.kind {
		case "polygon":
			assert.InDelta(t, cfg.TriangleOpacity, op.alpha, 0.01)
		case "line":
			assert.InDelta(t, cfg.LineOpacity, op.alpha, 0.01)
		case "circle":
			assert.InDelta(t, cfg.ParticleOpacity, op.alpha, 0.01)
			assert.Equal(t, 1.0, op.radius)
		}
	}
}

func TestTriangleFadesWithOldestVertex(t *testing.T) {
	cfg := graphConfig(100, 5)
	cfg.LifespanRange.Min, cfg.LifespanRange.Max = 4, 4
	f := newTestField(cfg, 1000, 1000)
	place(f, clusterWithSpurs()...)
	for _, p := range f.Particles() {
		p.Lifespan = 4 * time.Second
	}
	f.Particles()[1].Born = epoch.Add(-2 * time.Second)

	f.ComputeConnections()
	require.Len(t, f.FindTriangles(), 1)

	rec := &recorder{}
	f.Render(rec, epoch.Add(time.Second))
	require.Equal(t, "polygon", rec.ops[0].kind)
	// Vertex 1 is 3s into a 4s lifespan.
	assert.InDelta(t, cfg.TriangleOpacity*(1-0.75), rec.ops[0].alpha, 0.01)
	assert.Equal(t, []draw.Point{{X: 100, Y: 100}, {X: 150, Y: 100}, {X: 125, Y: 140}}, rec.ops[0].points)
}

func TestParticleFade(t *testing.T) {
	cfg := graphConfig(100, 5)
	cfg.LifespanRange.Min, cfg.LifespanRange.Max = 4, 4
	f := newTestField(cfg, 1000, 1000)
	place(f, [2]float64{500, 500})
	p := f.Particles()[0]
	p.Lifespan = 4 * time.Second
	p.Radius = 2

	for _, tc := range []struct {
		at     time.Duration
		alpha  float64
		radius float64
	}{
		{0, 1, 2},
		{time.Second, 0.75, 1.75},
		{2 * time.Second, 0.5, 1.5},
		{4 * time.Second, 0, 1},
		{6 * time.Second, 0, 1},
	} {
		rec := &recorder{}
		f.Render(rec, epoch.Add(tc.at))
		require.Len(t, rec.ops, 1)
		assert.InDelta(t, tc.alpha, rec.ops[0].alpha, 0.01, "at %s", tc.at)
		assert.InDelta(t, tc.radius, rec.ops[0].radius, 1e-9, "at %s", tc.at)
	}

	// Fully faded particles are replaced on the next tick.
	f.target = 1
	later := epoch.Add(4 * time.Second)
	f.Tick(later)
	require.Len(t, f.Particles(), 1)
	assert.Equal(t, later, f.Particles()[0].Born)
}

func TestEdgeFadesWithOlderEndpoint(t *testing.T) {
	cfg := graphConfig(100, 5)
	cfg.LifespanRange.Min, cfg.LifespanRange.Max = 10, 10
	f := newTestField(cfg, 1000, 1000)
	place(f, [2]float64{100, 100}, [2]float64{130, 140})
	f.Particles()[0].Lifespan = 10 * time.Second
	f.Particles()[1].Lifespan = 10 * time.Second
	f.Particles()[1].Born = epoch.Add(-5 * time.Second)
	f.ComputeConnections()

	rec := &recorder{}
	f.Render(rec, epoch.Add(3*time.Second))
	require.Equal(t, "line", rec.ops[0].kind)
	assert.InDelta(t, cfg.LineOpacity*(1-0.8), rec.ops[0].alpha, 0.01)
}

func TestEnteringParticlesDrawnOpaque(t *testing.T) {
	cfg := graphConfig(100, 5)
	cfg.LifespanRange.Min, cfg.LifespanRange.Max = 4, 4
	cfg.ParticleOpacity = 0.5
	f := newTestField(cfg, 100, 100)
	place(f, [2]float64{10, 10})
	f.particles[0].Entered = false
	f.particles[0].X = -3
	f.particles[0].Lifespan = 4 * time.Second
	f.particles[0].Radius = 2

	rec := &recorder{}
	f.Render(rec, epoch.Add(3*time.Second))
	require.Len(t, rec.ops, 1)
	assert.InDelta(t, 1, rec.ops[0].alpha, 1e-9)
	assert.Equal(t, 2.0, rec.ops[0].radius)
}

func TestRenderOntoCanvas(t *testing.T) {
	f := newTestField(testConfig(), 40, 40)
	f.Step(epoch.Add(time.Second / 30))

	c := draw.NewCanvas(40, 20)
	c.FillGradient(draw.DefaultGradient())
	assert.NotPanics(t, func() { f.Render(c, epoch) })
}
