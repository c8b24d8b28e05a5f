// Package input turns raw terminal bytes into wallpaper commands.
package input

import (
	"bufio"
	"io"
)

// Input represents the commands received since the previous frame.
type Input struct {
	Quit        bool
	TogglePause bool
	ToggleClock bool
	Preset      int    // Zero-based preset index selected with 1-9, or -1
	Pressed     []byte // Every byte read, for activity tracking
	Closed      bool   // The reader reached EOF or failed
}

// Active reports whether any key was pressed.
func (in Input) Active() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.ByteReader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// NewStream is StartStream for a plain reader.
func NewStream(r io.Reader) *Stream {
	if br, ok := r.(io.ByteReader); ok {
		return StartStream(br)
	}
	return StartStream(bufio.NewReader(r))
}

// ReadInput drains all available bytes from the stream without blocking.
// Escape sequences (arrow keys and the like) count as activity only.
func ReadInput(s *Stream) Input {
	in := Input{Preset: -1, Closed: s.closed}

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				in.Closed = true
				break drain
			}
			in.Pressed = append(in.Pressed, b)
		default:
			break drain
		}
	}

	for i := 0; i < len(in.Pressed); i++ {
		b := in.Pressed[i]
		if b == '\x1b' {
			i += escapeLength(in.Pressed[i:]) - 1
			continue
		}
		applyByte(&in, b)
	}
	return in
}

// escapeLength returns the length of the escape sequence at the start of buf.
// A lone ESC has length 1.
func escapeLength(buf []byte) int {
	if len(buf) < 2 || (buf[1] != '[' && buf[1] != 'O') {
		return 1
	}
	// CSI/SS3: parameters then a final byte in 0x40-0x7e.
	for i := 2; i < len(buf); i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7e {
			return i + 1
		}
	}
	return len(buf)
}

// applyByte records the command bound to b. Toggles pressed twice in one
// frame cancel out.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case ' ', 'p', 'P':
		in.TogglePause = !in.TogglePause
	case 'c', 'C':
		in.ToggleClock = !in.ToggleClock
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		in.Preset = int(b - '1')
	}
}
