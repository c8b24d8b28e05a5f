package object

import (
	"math"
	"math/rand"
	"time"
)

// TargetCount returns the population a surface holds at the given density:
// floor(width * height / density).
func TargetCount(screen Screen, density float64) int {
	if density <= 0 {
		return 0
	}
	return int(math.Floor(screen.Area() / density))
}

// Spawner keeps the particle population at a target level.
type Spawner struct {
	policy SpawnPolicy
	params SpawnParams
	rng    *rand.Rand
}

// NewSpawner creates a spawner that uses policy for every new particle.
func NewSpawner(policy SpawnPolicy, params SpawnParams, rng *rand.Rand) *Spawner {
	return &Spawner{
		policy: policy,
		params: params,
		rng:    rng,
	}
}

// Policy returns the spawn policy used for replenishment.
func (s *Spawner) Policy() SpawnPolicy {
	return s.policy
}

// Spawn creates one particle.
func (s *Spawner) Spawn(screen Screen, now time.Time) *Particle {
	return Spawn(s.policy, screen, s.params, now, s.rng)
}

// Populate creates a fresh population of count particles spread over the
// whole surface. Initial particles always use the interior policy so the
// surface is not empty while edge-entry particles drift in.
func (s *Spawner) Populate(screen Screen, count int, now time.Time) []*Particle {
	particles := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		particles = append(particles, Spawn(InteriorSpawn, screen, s.params, now, s.rng))
	}
	return particles
}

// Replenish appends new particles until the population reaches target.
func (s *Spawner) Replenish(particles []*Particle, target int, screen Screen, now time.Time) []*Particle {
	for len(particles) < target {
		particles = append(particles, s.Spawn(screen, now))
	}
	return particles
}
