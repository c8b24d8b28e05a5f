package loop

import "time"

// State holds per-session state.
type State struct {
	Running    bool
	Paused     bool
	ShowClock  bool
	PresetName string

	SimTime   time.Time // Field clock; stands still while paused
	LastFrame time.Time

	LastInput time.Time
	Inactive  bool // Inactivity warning is shown

	ShuttingDown bool
	ShutdownAt   time.Time // Session ends at this time once shutting down

	Notice      string // Transient bottom-row message
	NoticeUntil time.Time

	prevScreen screen // Full-screen overlay drawn last frame
}

// NewState creates a running state whose clocks start at now.
func NewState(now time.Time) *State {
	return &State{
		Running:   true,
		SimTime:   now,
		LastFrame: now,
		LastInput: now,
	}
}
