package object

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a drifting point of the wallpaper field.
type Particle struct {
	X, Y        float64       // Position
	VX, VY      float64       // Velocity per tick (constant magnitude)
	Radius      float64       // Drawn disk radius
	Connections int           // Edges incident this frame
	Born        time.Time     // Spawn time
	Lifespan    time.Duration // Zero means the particle never expires
	Entered     bool          // Has been inside the surface at least once
}

// SpawnPolicy selects where new particles appear.
type SpawnPolicy int

const (
	// InteriorSpawn places particles uniformly over the surface.
	InteriorSpawn SpawnPolicy = iota
	// EdgeEntrySpawn places particles just outside a random edge, heading inward.
	EdgeEntrySpawn
)

func (p SpawnPolicy) String() string {
	switch p {
	case InteriorSpawn:
		return "interior"
	case EdgeEntrySpawn:
		return "edge-entry"
	default:
		return "unknown"
	}
}

// SpawnParams holds the per-particle sampling parameters.
type SpawnParams struct {
	Speed      float64 // Distance travelled per tick
	Radius     Range   // Disk radius
	Lifespan   Range   // Seconds; zero range disables expiry
	EdgeOffset float64 // Distance outside the edge for edge-entry spawns
}

// Edges of the surface, in the order they are drawn from.
const (
	edgeTop = iota
	edgeBottom
	edgeLeft
	edgeRight
)

// Spawn creates a particle from the pool using the given policy.
func Spawn(policy SpawnPolicy, screen Screen, params SpawnParams, now time.Time, rng *rand.Rand) *Particle {
	w := float64(screen.Width)
	h := float64(screen.Height)

	var x, y, angle float64
	entered := true

	switch policy {
	case EdgeEntrySpawn:
		entered = false
		// Inward normal of the chosen edge, then ±90° around it.
		var normal float64
		switch rng.Intn(4) {
		case edgeTop:
			x = rng.Float64() * w
			y = -params.EdgeOffset
			normal = math.Pi / 2
		case edgeBottom:
			x = rng.Float64() * w
			y = h + params.EdgeOffset
			normal = -math.Pi / 2
		case edgeLeft:
			x = -params.EdgeOffset
			y = rng.Float64() * h
			normal = 0
		case edgeRight:
			x = w + params.EdgeOffset
			y = rng.Float64() * h
			normal = math.Pi
		}
		angle = normal + (rng.Float64()-0.5)*math.Pi
	default:
		x = rng.Float64() * w
		y = rng.Float64() * h
		angle = rng.Float64() * 2 * math.Pi
	}

	p := particlePool.Get().(*Particle)
	*p = Particle{
		X:       x,
		Y:       y,
		VX:      math.Cos(angle) * params.Speed,
		VY:      math.Sin(angle) * params.Speed,
		Radius:  params.Radius.Sample(rng),
		Born:    now,
		Entered: entered,
	}
	if !params.Lifespan.IsZero() {
		p.Lifespan = time.Duration(params.Lifespan.Sample(rng) * float64(time.Second))
	}
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the field.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Age returns how long the particle has existed at now.
func (p *Particle) Age(now time.Time) time.Duration {
	return now.Sub(p.Born)
}

// Progress returns age / lifespan clamped to [0, 1]; 0 for immortal particles.
func (p *Particle) Progress(now time.Time) float64 {
	if p.Lifespan <= 0 {
		return 0
	}
	return Clamp01(float64(p.Age(now)) / float64(p.Lifespan))
}

// Expired reports whether the particle should be removed this tick.
// Particles outside the surface go once they drift out of reach; entered
// particles go once their lifespan is used up.
func (p *Particle) Expired(ctx UpdateContext) bool {
	if !p.Entered {
		return ctx.Screen.DistanceFromCenter(p.X, p.Y) > ctx.Screen.Reach()
	}
	return p.Lifespan > 0 && p.Age(ctx.Now) >= p.Lifespan
}

// Update resets the connection count, moves the particle one step and
// resolves the boundary: entered particles wrap, others enter once inside.
func (p *Particle) Update(ctx UpdateContext) {
	p.Connections = 0

	p.X += p.VX
	p.Y += p.VY

	if p.Entered {
		ctx.Screen.WrapPosition(&p.X, &p.Y)
		return
	}
	if ctx.Screen.Contains(p.X, p.Y) {
		p.Entered = true
	}
}

// Speed returns the velocity magnitude.
func (p *Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}
