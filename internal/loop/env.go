package loop

import (
	"fmt"
	"strings"

	"github.com/tomz197/termwall/internal/config"
	"github.com/tomz197/termwall/internal/draw"
	"github.com/tomz197/termwall/internal/field"
	loopcfg "github.com/tomz197/termwall/internal/loop/config"
)

// Environment variables read by EnvOptions.
const (
	EnvPreset      = "WALL_PRESET"       // Preset name
	EnvPresetsFile = "WALL_PRESETS_FILE" // gcfg preset file
	EnvClock       = "WALL_CLOCK"        // Show the clock
	EnvColors      = "WALL_COLORS"       // Comma separated hex gradient stops
	EnvColorMode   = "WALL_COLOR_MODE"   // truecolor, 256, 16 or none
	EnvFPS         = "WALL_FPS"          // Frames per second
)

// EnvOptions builds session options from the WALL_* environment variables.
func EnvOptions() (Options, error) {
	library, err := config.LoadLibrary(config.GetEnv(EnvPresetsFile, ""))
	if err != nil {
		return Options{}, err
	}

	preset := config.GetEnv(EnvPreset, field.DefaultPreset)
	if _, ok := library.Get(preset); !ok {
		return Options{}, fmt.Errorf("%s: unknown preset %q (have %s)",
			EnvPreset, preset, strings.Join(library.Names(), ", "))
	}

	profile, err := draw.ProfileFromName(config.GetEnv(EnvColorMode, ""))
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", EnvColorMode, err)
	}

	fps := config.GetEnvInt(EnvFPS, loopcfg.TargetFPS)
	if fps < 1 || fps > loopcfg.MaxFPS {
		return Options{}, fmt.Errorf("%s: %d is outside [1, %d]", EnvFPS, fps, loopcfg.MaxFPS)
	}

	var gradient draw.Gradient
	if colors := config.GetEnv(EnvColors, ""); colors != "" {
		stops := strings.Split(colors, ",")
		for i := range stops {
			stops[i] = strings.TrimSpace(stops[i])
		}
		if gradient, err = draw.NewGradient(stops...); err != nil {
			return Options{}, fmt.Errorf("%s: %w", EnvColors, err)
		}
	}

	return Options{
		Library:   library,
		Preset:    preset,
		Profile:   profile,
		Gradient:  gradient,
		ShowClock: config.GetEnvBool(EnvClock, false),
		FPS:       fps,
	}, nil
}
