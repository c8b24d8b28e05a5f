package loop

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	loopcfg "github.com/tomz197/termwall/internal/loop/config"
)

// screen is what fills the terminal besides the wallpaper.
type screen int

const (
	screenWallpaper screen = iota
	screenInactive
	screenShutdown
)

func (s *Session) currentScreen() screen {
	switch {
	case s.state.ShuttingDown:
		return screenShutdown
	case s.state.Inactive:
		return screenInactive
	default:
		return screenWallpaper
	}
}

// drawFrame draws the current frame.
func (s *Session) drawFrame(now time.Time) error {
	// On overlay transitions, do a full terminal clear so text from the
	// previous screen doesn't persist.
	cur := s.currentScreen()
	if cur != s.state.prevScreen {
		s.chunkWriter.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
		s.state.prevScreen = cur
	}

	s.canvas.FillGradient(s.gradient)
	s.field.Render(s.canvas, s.state.SimTime)

	// Render canvas to terminal
	s.canvas.Render(s.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	s.canvas.RenderBorder(s.chunkWriter)

	switch cur {
	case screenShutdown:
		s.drawShutdownScreen(now)
	case screenInactive:
		s.drawInactivityScreen(now)
	default:
		s.drawStatus(now)
	}

	return s.chunkWriter.Flush()
}

// writeText writes text over the canvas and marks the cells for repaint on
// the next frame. col and row are 1-based canvas coordinates.
func (s *Session) writeText(col, row int, text string) {
	if row < 1 || row > s.canvas.TerminalHeight() || s.canvas.TerminalWidth() == 0 {
		return
	}
	text = ansi.Truncate(text, s.canvas.TerminalWidth(), "")
	col = max(col, 1)
	s.chunkWriter.WriteAt(col, row, text)
	s.canvas.MarkTextDirty(col, row, ansi.StringWidth(text))
}

// writeCentered writes text centred on row.
func (s *Session) writeCentered(row int, text string) {
	s.writeText(s.canvas.TerminalWidth()/2-ansi.StringWidth(text)/2+1, row, text)
}

// drawStatus draws the clock on the top row and the notice or pause line on
// the bottom row.
func (s *Session) drawStatus(now time.Time) {
	if s.state.ShowClock {
		s.writeCentered(1, now.Format("15:04:05"))
	}

	bottom := s.canvas.TerminalHeight()
	switch {
	case now.Before(s.state.NoticeUntil):
		s.writeCentered(bottom, s.state.Notice)
	case s.state.Paused:
		s.writeCentered(bottom, s.pauseLine())
	}
}

func (s *Session) pauseLine() string {
	parts := []string{"paused", s.state.PresetName}
	if s.hub != nil {
		parts = append(parts, fmt.Sprintf("%d watching", s.hub.Count()))
	}
	parts = append(parts, "space resume", "q quit")
	return strings.Join(parts, " | ")
}

// drawInactivityScreen draws the inactivity warning screen.
func (s *Session) drawInactivityScreen(now time.Time) {
	centerY := s.canvas.TerminalHeight() / 2
	s.writeCentered(centerY-2, "INACTIVITY WARNING")

	remaining := int(loopcfg.InactivityDisconnectUser - now.Sub(s.state.LastInput).Seconds())
	s.writeCentered(centerY, fmt.Sprintf("Disconnecting in %d seconds.", max(remaining, 0)))
	s.writeCentered(centerY+2, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown countdown.
func (s *Session) drawShutdownScreen(now time.Time) {
	centerY := s.canvas.TerminalHeight() / 2
	s.writeCentered(centerY-1, "SERVER SHUTTING DOWN")

	remaining := int(s.state.ShutdownAt.Sub(now).Seconds() + 0.999)
	s.writeCentered(centerY+1, fmt.Sprintf("Disconnecting in %d seconds.", max(remaining, 0)))
}
