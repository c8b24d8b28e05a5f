// Package config centralizes the tunable frame loop parameters.
package config

import "time"

// Rendering
const (
	TargetFPS       = 30
	TargetFrameTime = time.Second / TargetFPS
	MaxFPS          = 120
)

// FrameTime returns the frame budget for fps, using TargetFPS when fps is not
// positive and MaxFPS above that.
func FrameTime(fps int) time.Duration {
	if fps <= 0 {
		return TargetFrameTime
	}
	return time.Second / time.Duration(min(fps, MaxFPS))
}

// Max render resolution in terminal cells. Larger terminals get a centred,
// bordered canvas of this size.
const (
	MaxTermWidth  = 240
	MaxTermHeight = 70
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownTimeout        = 15 * time.Second
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Overlays
const (
	NoticeSeconds     = 2.0 // How long a preset change is announced
	MaxUsernameLength = 16
)
