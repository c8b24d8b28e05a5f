// Package field simulates the wallpaper's particle field: a population of
// drifting particles, the proximity graph between them, and the triangles
// that graph contains.
//
// A Field is driven by one render loop. Call Resize whenever the surface
// changes, then once per frame Step (or Tick, ComputeConnections and
// FindTriangles in that order) followed by Render. A Field is not safe for
// concurrent use.
package field

import (
	"math/rand"
	"time"

	"github.com/tomz197/termwall/internal/object"
	"github.com/tomz197/termwall/internal/physics"
)

// Edge connects two particles by index, A < B.
type Edge struct {
	A, B int
}

// Triangle is three mutually connected particles by index, A < B < C.
type Triangle struct {
	A, B, C int
}

// Field owns a particle population sized to a surface.
type Field struct {
	cfg       Config
	screen    object.Screen
	target    int
	particles []*object.Particle
	spawner   *object.Spawner
	rng       *rand.Rand

	edges     []Edge
	triangles []Triangle

	// Reusable per-frame buffers
	grid       *physics.SpatialGrid
	candidates []int
	eligible   []int
}

// Option configures a Field.
type Option func(*Field)

// WithRand makes the field draw all randomness from rng.
func WithRand(rng *rand.Rand) Option {
	return func(f *Field) {
		f.rng = rng
	}
}

// New creates an empty field. Call Resize to populate it.
func New(cfg Config, opts ...Option) *Field {
	f := &Field{
		cfg:  cfg,
		grid: physics.NewSpatialGrid(0, 0, cfg.ConnectionThreshold),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	f.spawner = object.NewSpawner(cfg.Policy(), cfg.SpawnParams(), f.rng)
	return f
}

// Resize recomputes the target population for a width x height surface,
// discards the current particles and spawns a fresh population.
// Negative dimensions are treated as zero.
func (f *Field) Resize(width, height int, now time.Time) {
	f.screen = object.NewScreen(width, height)
	f.target = object.TargetCount(f.screen, f.cfg.Density)

	f.releaseFrom(0)
	f.particles = f.spawner.Populate(f.screen, f.target, now)
	f.edges = f.edges[:0]
	f.triangles = f.triangles[:0]
}

// SetConfig switches to a new configuration and rebuilds the population at
// the current size.
func (f *Field) SetConfig(cfg Config, now time.Time) {
	f.cfg = cfg
	f.spawner = object.NewSpawner(cfg.Policy(), cfg.SpawnParams(), f.rng)
	f.Resize(f.screen.Width, f.screen.Height, now)
}

// Tick advances the population by one frame: expired particles are removed,
// survivors move one step, and new particles restore the target count.
func (f *Field) Tick(now time.Time) {
	ctx := object.UpdateContext{Now: now, Screen: f.screen}

	kept := f.particles[:0]
	for _, p := range f.particles {
		if p.Expired(ctx) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(f.particles[len(kept):])
	f.particles = kept

	for _, p := range f.particles {
		p.Update(ctx)
	}

	if len(f.particles) > f.target {
		f.releaseFrom(f.target)
	}
	f.particles = f.spawner.Replenish(f.particles, f.target, f.screen, now)

	// Indices from the previous frame no longer apply.
	f.edges = f.edges[:0]
	f.triangles = f.triangles[:0]
}

// Step runs Tick, ComputeConnections and FindTriangles.
func (f *Field) Step(now time.Time) {
	f.Tick(now)
	f.ComputeConnections()
	f.FindTriangles()
}

// releaseFrom returns particles[n:] to the pool and truncates the slice.
func (f *Field) releaseFrom(n int) {
	for _, p := range f.particles[n:] {
		p.Release()
	}
	clear(f.particles[n:])
	f.particles = f.particles[:n]
}

// Config returns the active configuration.
func (f *Field) Config() Config {
	return f.cfg
}

// Screen returns the current surface dimensions.
func (f *Field) Screen() object.Screen {
	return f.screen
}

// Target returns the population the field maintains.
func (f *Field) Target() int {
	return f.target
}

// Particles returns the live particles. The slice is owned by the field and
// only valid until the next Tick or Resize.
func (f *Field) Particles() []*object.Particle {
	return f.particles
}

// Edges returns the edges found by the last ComputeConnections.
func (f *Field) Edges() []Edge {
	return f.edges
}

// Triangles returns the triangles found by the last FindTriangles.
func (f *Field) Triangles() []Triangle {
	return f.triangles
}
