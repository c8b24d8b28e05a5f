package field

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/termwall/internal/object"
)

// Config is the static configuration of a field. Distances are in surface
// units (terminal sub-pixels for the terminal canvas).
type Config struct {
	Density                   float64      // Surface area per particle
	Speed                     float64      // Distance travelled per tick
	ConnectionThreshold       float64      // Particles closer than this are connected
	MaxConnectionsPerParticle int          // Edge cap per particle
	MaxTriangles              int          // Triangles drawn per frame at most
	MinTriangleConnections    int          // Connections a vertex needs to join a triangle
	RadiusRange               object.Range // Disk radius
	LifespanRange             object.Range // Seconds; zero range disables fading
	EdgeEntry                 bool         // Replenish from just outside the edges
	EdgeOffset                float64      // Distance outside the edge for edge-entry spawns
	TriangleOpacity           float64
	LineOpacity               float64
	ParticleOpacity           float64 // Disk opacity when fading is disabled
	LineWidth                 float64
	Color                     colorful.Color
}

// Fading reports whether particles age out and fade.
func (c Config) Fading() bool {
	return !c.LifespanRange.IsZero()
}

// Policy returns the spawn policy used for replenishment.
func (c Config) Policy() object.SpawnPolicy {
	if c.EdgeEntry {
		return object.EdgeEntrySpawn
	}
	return object.InteriorSpawn
}

// SpawnParams returns the per-particle sampling parameters.
func (c Config) SpawnParams() object.SpawnParams {
	return object.SpawnParams{
		Speed:      c.Speed,
		Radius:     c.RadiusRange,
		Lifespan:   c.LifespanRange,
		EdgeOffset: c.EdgeOffset,
	}
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid field config")

// Lower bounds that keep the population and the neighbour grid finite on any
// surface. A zero connection threshold disables connections.
const (
	MinDensity             = 1.0
	MinConnectionThreshold = 1.0
)

// Validate checks that the configuration describes a drawable field.
func (c Config) Validate() error {
	switch {
	case !(c.Density >= MinDensity):
		return fmt.Errorf("%w: density must be at least %g, got %g", ErrInvalidConfig, MinDensity, c.Density)
	case c.Speed < 0:
		return fmt.Errorf("%w: speed must not be negative, got %g", ErrInvalidConfig, c.Speed)
	case c.ConnectionThreshold != 0 && !(c.ConnectionThreshold >= MinConnectionThreshold):
		return fmt.Errorf("%w: connection threshold must be 0 or at least %g, got %g", ErrInvalidConfig, MinConnectionThreshold, c.ConnectionThreshold)
	case c.MaxConnectionsPerParticle < 0 || c.MaxTriangles < 0 || c.MinTriangleConnections < 0:
		return fmt.Errorf("%w: connection and triangle limits must not be negative", ErrInvalidConfig)
	case c.RadiusRange.Min < 0 || c.RadiusRange.Max < c.RadiusRange.Min:
		return fmt.Errorf("%w: radius range [%g, %g]", ErrInvalidConfig, c.RadiusRange.Min, c.RadiusRange.Max)
	case c.LifespanRange.Min < 0 || c.LifespanRange.Max < c.LifespanRange.Min:
		return fmt.Errorf("%w: lifespan range [%g, %g]", ErrInvalidConfig, c.LifespanRange.Min, c.LifespanRange.Max)
	case c.Fading() && c.LifespanRange.Min == 0:
		return fmt.Errorf("%w: lifespan minimum must be positive when fading", ErrInvalidConfig)
	case c.EdgeOffset < 0:
		return fmt.Errorf("%w: edge offset must not be negative, got %g", ErrInvalidConfig, c.EdgeOffset)
	case c.LineWidth < 0:
		return fmt.Errorf("%w: line width must not be negative, got %g", ErrInvalidConfig, c.LineWidth)
	}
	opacities := []struct {
		name  string
		value float64
	}{
		{"triangle opacity", c.TriangleOpacity},
		{"line opacity", c.LineOpacity},
		{"particle opacity", c.ParticleOpacity},
	}
	for _, o := range opacities {
		if o.value < 0 || o.value > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %g", ErrInvalidConfig, o.name, o.value)
		}
	}
	return nil
}
