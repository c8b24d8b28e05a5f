package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/gcfg.v1"

	"github.com/tomz197/termwall/internal/field"
)

// ExamplePresetFile is a documented preset file.
const ExamplePresetFile = `# Every [preset "name"] section defines a look. Keys that are left out
# inherit from the built-in "triangles" preset. A section named after a
# built-in preset replaces it.

[preset "aurora"]

# Surface area (in sub-pixels) per particle. Smaller is denser.
density = 110

# Distance travelled per frame.
speed = 0.2

# Particles closer than this are joined by a line.
connection-threshold = 18
max-connections = 4

# Triangles are drawn between mutually close particles that each have at
# least min-triangle-connections lines. Set max-triangles = 0 to disable.
max-triangles = 50
min-triangle-connections = 3

radius-min = 0.5
radius-max = 1.2

# Seconds. When set, particles fade out and are replaced.
# lifespan-min = 8
# lifespan-max = 16

# Replacement particles drift in from just outside the edges.
# edge-entry = true
# edge-offset = 6

triangle-opacity = 0.12
line-opacity = 0.3
particle-opacity = 1
line-width = 1

# Hex colour, quoted because '#' starts a comment.
color = "#ffffff"`

// PresetFile is the gcfg layout of a preset file.
type PresetFile struct {
	Preset map[string]*PresetSection
}

// PresetSection holds the keys of one [preset "name"] section. Every key is
// optional.
type PresetSection struct {
	Density                OptFloat `gcfg:"density"`
	Speed                  OptFloat `gcfg:"speed"`
	ConnectionThreshold    OptFloat `gcfg:"connection-threshold"`
	MaxConnections         OptInt   `gcfg:"max-connections"`
	MaxTriangles           OptInt   `gcfg:"max-triangles"`
	MinTriangleConnections OptInt   `gcfg:"min-triangle-connections"`
	RadiusMin              OptFloat `gcfg:"radius-min"`
	RadiusMax              OptFloat `gcfg:"radius-max"`
	LifespanMin            OptFloat `gcfg:"lifespan-min"`
	LifespanMax            OptFloat `gcfg:"lifespan-max"`
	EdgeEntry              OptBool  `gcfg:"edge-entry"`
	EdgeOffset             OptFloat `gcfg:"edge-offset"`
	TriangleOpacity        OptFloat `gcfg:"triangle-opacity"`
	LineOpacity            OptFloat `gcfg:"line-opacity"`
	ParticleOpacity        OptFloat `gcfg:"particle-opacity"`
	LineWidth              OptFloat `gcfg:"line-width"`
	Color                  OptColor `gcfg:"color"`
}

// OptFloat is a float64 that remembers whether it was set.
type OptFloat struct {
	Value float64
	Set   bool
}

func (o *OptFloat) UnmarshalText(text []byte) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(text)), 64)
	if err != nil {
		return err
	}
	*o = OptFloat{Value: v, Set: true}
	return nil
}

// OptInt is an int that remembers whether it was set.
type OptInt struct {
	Value int
	Set   bool
}

func (o *OptInt) UnmarshalText(text []byte) error {
	v, err := strconv.Atoi(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*o = OptInt{Value: v, Set: true}
	return nil
}

// OptBool is a bool that remembers whether it was set.
type OptBool struct {
	Value bool
	Set   bool
}

func (o *OptBool) UnmarshalText(text []byte) error {
	v, err := strconv.ParseBool(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*o = OptBool{Value: v, Set: true}
	return nil
}

// OptColor is a hex colour that remembers whether it was set.
type OptColor struct {
	Value colorful.Color
	Set   bool
}

func (o *OptColor) UnmarshalText(text []byte) error {
	hex := strings.TrimSpace(string(text))
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return err
	}
	*o = OptColor{Value: c, Set: true}
	return nil
}

// Apply overlays the keys set in the section onto base.
func (s *PresetSection) Apply(base field.Config) field.Config {
	cfg := base
	setFloat(&cfg.Density, s.Density)
	setFloat(&cfg.Speed, s.Speed)
	setFloat(&cfg.ConnectionThreshold, s.ConnectionThreshold)
	setInt(&cfg.MaxConnectionsPerParticle, s.MaxConnections)
	setInt(&cfg.MaxTriangles, s.MaxTriangles)
	setInt(&cfg.MinTriangleConnections, s.MinTriangleConnections)
	setFloat(&cfg.RadiusRange.Min, s.RadiusMin)
	setFloat(&cfg.RadiusRange.Max, s.RadiusMax)
	setFloat(&cfg.LifespanRange.Min, s.LifespanMin)
	setFloat(&cfg.LifespanRange.Max, s.LifespanMax)
	setFloat(&cfg.EdgeOffset, s.EdgeOffset)
	setFloat(&cfg.TriangleOpacity, s.TriangleOpacity)
	setFloat(&cfg.LineOpacity, s.LineOpacity)
	setFloat(&cfg.ParticleOpacity, s.ParticleOpacity)
	setFloat(&cfg.LineWidth, s.LineWidth)
	if s.EdgeEntry.Set {
		cfg.EdgeEntry = s.EdgeEntry.Value
	}
	if s.Color.Set {
		cfg.Color = s.Color.Value
	}
	return cfg
}

func setFloat(dst *float64, o OptFloat) {
	if o.Set {
		*dst = o.Value
	}
}

func setInt(dst *int, o OptInt) {
	if o.Set {
		*dst = o.Value
	}
}

// Library is an ordered set of named field configurations.
type Library struct {
	names   []string
	configs map[string]field.Config
}

// BuiltinLibrary returns the built-in presets.
func BuiltinLibrary() *Library {
	l := &Library{configs: make(map[string]field.Config)}
	for _, name := range field.PresetNames() {
		cfg, _ := field.Preset(name)
		l.add(name, cfg)
	}
	return l
}

func (l *Library) add(name string, cfg field.Config) {
	if _, ok := l.configs[name]; !ok {
		l.names = append(l.names, name)
	}
	l.configs[name] = cfg
}

// LoadLibrary returns the built-in presets extended with the presets in the
// file at path. An empty path loads only the built-ins.
func LoadLibrary(path string) (*Library, error) {
	l := BuiltinLibrary()
	if path == "" {
		return l, nil
	}
	file := &PresetFile{}
	if err := gcfg.ReadFileInto(file, path); err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}
	if err := l.merge(file); err != nil {
		return nil, fmt.Errorf("presets %s: %w", path, err)
	}
	return l, nil
}

// ParseLibrary is LoadLibrary for preset text held in memory.
func ParseLibrary(text string) (*Library, error) {
	l := BuiltinLibrary()
	file := &PresetFile{}
	if err := gcfg.ReadStringInto(file, text); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	if err := l.merge(file); err != nil {
		return nil, err
	}
	return l, nil
}

// merge adds the file's presets in name order.
func (l *Library) merge(file *PresetFile) error {
	base, _ := field.Preset(field.DefaultPreset)

	names := make([]string, 0, len(file.Preset))
	for name := range file.Preset {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		section := file.Preset[name]
		if section == nil {
			section = &PresetSection{}
		}
		cfg := section.Apply(base)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
		l.add(name, cfg)
	}
	return nil
}

// Get returns the configuration named name.
func (l *Library) Get(name string) (field.Config, bool) {
	cfg, ok := l.configs[name]
	return cfg, ok
}

// Names returns the preset names, built-ins first.
func (l *Library) Names() []string {
	return slices.Clone(l.names)
}

// Len returns the number of presets.
func (l *Library) Len() int {
	return len(l.names)
}

// At returns the i-th preset in Names order.
func (l *Library) At(i int) (string, field.Config, bool) {
	if i < 0 || i >= len(l.names) {
		return "", field.Config{}, false
	}
	name := l.names[i]
	return name, l.configs[name], true
}
