package field

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/termwall/internal/object"
)

// Preset names.
const (
	PresetConstellation = "constellation"
	PresetTriangles     = "triangles"
	PresetMesh          = "mesh"
	PresetDrift         = "drift"
)

// DefaultPreset is used when no preset is named.
const DefaultPreset = PresetTriangles

var white = colorful.Color{R: 1, G: 1, B: 1}

// presetNames fixes the order presets are cycled through.
var presetNames = []string{PresetConstellation, PresetTriangles, PresetMesh, PresetDrift}

// Built-in presets, tuned for a terminal canvas of roughly 160x90 sub-pixels.
// They are independent looks, none is more correct than another.
var presets = map[string]Config{
	PresetConstellation: {
		Density:                   140,
		Speed:                     0.25,
		ConnectionThreshold:       14,
		MaxConnectionsPerParticle: 4,
		RadiusRange:               object.Range{Min: 0.4, Max: 1},
		LineOpacity:               0.35,
		ParticleOpacity:           1,
		LineWidth:                 1,
		Color:                     white,
	},
	PresetTriangles: {
		Density:                   150,
		Speed:                     0.25,
		ConnectionThreshold:       15,
		MaxConnectionsPerParticle: 5,
		MaxTriangles:              40,
		MinTriangleConnections:    3,
		RadiusRange:               object.Range{Min: 0.5, Max: 1.2},
		TriangleOpacity:           0.15,
		LineOpacity:               0.3,
		ParticleOpacity:           1,
		LineWidth:                 1,
		Color:                     white,
	},
	PresetMesh: {
		Density:                   120,
		Speed:                     0.2,
		ConnectionThreshold:       16,
		MaxConnectionsPerParticle: 3,
		MaxTriangles:              60,
		MinTriangleConnections:    2,
		RadiusRange:               object.Range{Min: 0.4, Max: 0.9},
		TriangleOpacity:           0.1,
		LineOpacity:               0.25,
		ParticleOpacity:           0.9,
		LineWidth:                 1,
		Color:                     white,
	},
	PresetDrift: {
		Density:                   160,
		Speed:                     0.3,
		ConnectionThreshold:       15,
		MaxConnectionsPerParticle: 5,
		MaxTriangles:              30,
		MinTriangleConnections:    3,
		RadiusRange:               object.Range{Min: 0.5, Max: 1.4},
		LifespanRange:             object.Range{Min: 8, Max: 16},
		EdgeEntry:                 true,
		EdgeOffset:                6,
		TriangleOpacity:           0.2,
		LineOpacity:               0.4,
		ParticleOpacity:           1,
		LineWidth:                 1,
		Color:                     white,
	},
}

// Preset returns a built-in preset by name.
func Preset(name string) (Config, bool) {
	cfg, ok := presets[name]
	return cfg, ok
}

// PresetNames returns the built-in preset names in display order.
func PresetNames() []string {
	return append([]string(nil), presetNames...)
}
