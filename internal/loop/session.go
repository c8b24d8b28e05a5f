// Package loop runs the wallpaper frame loop for one terminal.
package loop

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/muesli/termenv"

	"github.com/tomz197/termwall/internal/config"
	"github.com/tomz197/termwall/internal/draw"
	"github.com/tomz197/termwall/internal/field"
	"github.com/tomz197/termwall/internal/input"
	loopcfg "github.com/tomz197/termwall/internal/loop/config"
	"github.com/tomz197/termwall/internal/loop/server"
)

// Options configures a Session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc // Defaults to the local terminal
	Library      *config.Library   // Defaults to the built-in presets
	Preset       string            // Defaults to field.DefaultPreset
	Profile      termenv.Profile
	Gradient     draw.Gradient // Defaults to draw.DefaultGradient
	ShowClock    bool
	FPS          int // Frames per second, defaults to 30

	// Hub, when set, registers the session so it can be counted and told
	// about a shutdown.
	Hub      *server.Hub
	Username string

	// DisconnectInactive ends the session after a period without input.
	DisconnectInactive bool

	Rand *rand.Rand
}

// Session draws the wallpaper to one terminal.
type Session struct {
	writer       io.Writer
	stream       *input.Stream
	termSizeFunc draw.TermSizeFunc
	library      *config.Library
	gradient     draw.Gradient
	hub          *server.Hub
	handle       *server.ClientHandle
	disconnect   bool
	frameTime    time.Duration

	field       *field.Field
	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter
	state       *State
}

// NewSession creates a session reading keys from r and drawing to w.
// It fails if the named preset does not exist.
func NewSession(r io.Reader, w io.Writer, opts Options) (*Session, error) {
	library := opts.Library
	if library == nil {
		library = config.BuiltinLibrary()
	}
	presetName := opts.Preset
	if presetName == "" {
		presetName = field.DefaultPreset
	}
	cfg, ok := library.Get(presetName)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", presetName)
	}

	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	gradient := opts.Gradient
	if len(gradient.Stops) == 0 {
		gradient = draw.DefaultGradient()
	}

	var fieldOpts []field.Option
	if opts.Rand != nil {
		fieldOpts = append(fieldOpts, field.WithRand(opts.Rand))
	}

	now := time.Now()
	state := NewState(now)
	state.ShowClock = opts.ShowClock
	state.PresetName = presetName

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewCanvas(renderWidth, renderHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	canvas.SetProfile(opts.Profile)

	f := field.New(cfg, fieldOpts...)
	f.Resize(int(canvas.LogicalWidth()), int(canvas.LogicalHeight()), state.SimTime)

	s := &Session{
		writer:       w,
		stream:       input.NewStream(r),
		termSizeFunc: termSizeFunc,
		library:      library,
		gradient:     gradient,
		hub:          opts.Hub,
		disconnect:   opts.DisconnectInactive,
		frameTime:    loopcfg.FrameTime(opts.FPS),
		field:        f,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		state:        state,
	}
	if s.hub != nil {
		s.handle = s.hub.RegisterClient(opts.Username)
	}
	return s, nil
}

// Run draws frames until the viewer quits, goes inactive, the input ends,
// the hub shuts down or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	draw.HideCursor(s.writer)
	defer draw.ShowCursor(s.writer)
	draw.ClearScreen(s.writer)

	if s.handle != nil {
		defer s.hub.UnregisterClient(s.handle.ID)
	}

	for s.state.Running {
		select {
		case <-ctx.Done():
			s.state.Running = false
			continue
		default:
		}

		frameStart := time.Now()
		if err := s.Frame(frameStart); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < s.frameTime {
			time.Sleep(s.frameTime - elapsed)
		}
	}

	draw.ClearScreen(s.writer)
	return nil
}

// Frame runs one Input → Resize → Update → Draw cycle at now.
func (s *Session) Frame(now time.Time) error {
	s.handleInput(input.ReadInput(s.stream), now)
	s.processHubEvents(now)
	s.updateTimers(now)
	if !s.state.Running {
		return nil
	}

	s.updateScreen()
	if !s.state.Paused {
		s.field.Step(s.state.SimTime)
	}
	return s.drawFrame(now)
}

// handleInput applies the keys pressed since the previous frame.
func (s *Session) handleInput(in input.Input, now time.Time) {
	if in.Closed {
		s.state.Running = false
		return
	}
	if in.Active() {
		s.state.LastInput = now
		s.state.Inactive = false
	}
	if in.Quit {
		s.state.Running = false
		return
	}
	if in.TogglePause {
		s.state.Paused = !s.state.Paused
	}
	if in.ToggleClock {
		s.state.ShowClock = !s.state.ShowClock
	}
	if in.Preset >= 0 {
		s.selectPreset(in.Preset, now)
	}
}

// selectPreset rebuilds the field with the i-th preset at the current size.
// Out of range indexes are ignored.
func (s *Session) selectPreset(i int, now time.Time) {
	name, cfg, ok := s.library.At(i)
	if !ok {
		return
	}
	s.field.SetConfig(cfg, s.state.SimTime)
	s.state.PresetName = name
	s.state.Notice = "preset: " + name
	s.state.NoticeUntil = now.Add(time.Duration(loopcfg.NoticeSeconds * float64(time.Second)))
}

// processHubEvents handles events from the hub.
func (s *Session) processHubEvents(now time.Time) {
	if s.handle == nil {
		return
	}
	for {
		select {
		case event, ok := <-s.handle.EventsCh:
			if !ok {
				// Hub dropped the session
				s.state.Running = false
				return
			}
			if event.Type == server.EventServerShutdown && !s.state.ShuttingDown {
				s.state.ShuttingDown = true
				s.state.ShutdownAt = now.Add(time.Duration(loopcfg.ShutdownDisplaySeconds * float64(time.Second)))
			}
		default:
			return
		}
	}
}

// updateTimers advances the simulation clock and checks inactivity and
// shutdown deadlines.
func (s *Session) updateTimers(now time.Time) {
	delta := now.Sub(s.state.LastFrame)
	s.state.LastFrame = now
	if !s.state.Paused && delta > 0 {
		s.state.SimTime = s.state.SimTime.Add(delta)
	}

	if s.state.ShuttingDown && !now.Before(s.state.ShutdownAt) {
		s.state.Running = false
		return
	}

	if !s.disconnect {
		return
	}
	idle := now.Sub(s.state.LastInput).Seconds()
	switch {
	case idle > loopcfg.InactivityDisconnectUser:
		s.state.Running = false
	case idle > loopcfg.InactivityWarnUser:
		s.state.Inactive = true
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area and resizes the field between ticks.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(s.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	sizeChanged := renderWidth != s.canvas.TerminalWidth() || renderHeight != s.canvas.TerminalHeight()
	if sizeChanged || offsetCol != s.canvas.OffsetCol() || offsetRow != s.canvas.OffsetRow() {
		draw.ClearScreen(s.writer)
		s.canvas.ForceRedraw()
	}

	s.canvas.Resize(renderWidth, renderHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.chunkWriter.SetOffset(offsetCol, offsetRow)

	if sizeChanged {
		s.field.Resize(int(s.canvas.LogicalWidth()), int(s.canvas.LogicalHeight()), s.state.SimTime)
	}
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = max(min(termWidth, loopcfg.MaxTermWidth), 0)
	renderHeight = max(min(termHeight, loopcfg.MaxTermHeight), 0)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

// Field returns the simulated field.
func (s *Session) Field() *field.Field {
	return s.field
}

// State returns the session state.
func (s *Session) State() *State {
	return s.state
}
