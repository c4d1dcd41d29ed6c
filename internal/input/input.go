package input

import (
	"bufio"
	"bytes"
	"strconv"
)

// Input represents the current frame's input.
type Input struct {
	Quit   bool
	Up     bool
	Down   bool
	Left   bool
	Right  bool
	Space  bool
	Enter  bool
	Escape bool
	Mouse  Mouse
	// Pressed holds every byte read this frame; non-empty means the user did something.
	Pressed []byte
}

// Mouse is the pointer activity seen in one frame.
type Mouse struct {
	Moved     bool // At least one position report arrived
	Col, Row  int  // Last reported 1-based terminal position
	Press     bool // Left button went down
	Release   bool // Left button went up
	Held      bool // Left button state after the last report
	WheelUp   int
	WheelDown int
}

// Any reports whether the frame carried any pointer activity.
func (m Mouse) Any() bool {
	return m.Moved || m.Press || m.Release || m.WheelUp > 0 || m.WheelDown > 0
}

// SGR mouse button codes.
const (
	buttonLeft   = 0
	buttonNone   = 3
	motionFlag   = 32
	wheelFlag    = 64
	modifierMask = 4 | 8 | 16
)

// maxPendingLen bounds how much of an unfinished escape sequence is kept.
const maxPendingLen = 32

// Stream delivers input bytes via a channel. Incomplete escape sequences
// are carried over to the next read.
type Stream struct {
	ch      chan byte
	pending []byte
	held    bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 256),
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

// ReadInput drains all available bytes from the stream (non-blocking) and
// parses keys and mouse reports. A closed stream reads as Quit.
func ReadInput(s *Stream) Input {
	buf := s.pending
	carried := len(buf)
	s.pending = nil
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Input{Pressed: buf}
	in.Mouse.Held = s.held
	rest := parse(buf, &in)
	switch {
	case len(rest) == 0:
	case len(buf) == carried || closed:
		// Nothing followed within a frame: a bare escape key.
		in.Escape = true
	case len(rest) < maxPendingLen:
		s.pending = append([]byte(nil), rest...)
		in.Pressed = buf[:len(buf)-len(rest)]
	}
	s.held = in.Mouse.Held
	if closed {
		in.Quit = true
	}
	return in
}

// Parse decodes a complete byte sequence into an Input. Exported for hosts
// that receive input as whole messages rather than a byte stream.
func Parse(buf []byte) Input {
	in := Input{Pressed: buf}
	parse(buf, &in)
	return in
}

// parse applies buf to in and returns a trailing incomplete escape sequence.
func parse(buf []byte, in *Input) []byte {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyByte(in, b)
			continue
		}

		// Lone ESC at the end may be the start of a sequence.
		if i+1 >= len(buf) {
			return buf[i:]
		}
		if buf[i+1] != '[' {
			in.Escape = true
			continue
		}
		if i+2 >= len(buf) {
			return buf[i:]
		}

		switch buf[i+2] {
		case 'A':
			in.Up = true
			i += 2
		case 'B':
			in.Down = true
			i += 2
		case 'C':
			in.Right = true
			i += 2
		case 'D':
			in.Left = true
			i += 2
		case '<':
			n, ok := parseMouse(buf[i+3:], &in.Mouse)
			if !ok {
				if n < 0 {
					return buf[i:]
				}
				in.Escape = true
				continue
			}
			i += 2 + n
		default:
			in.Escape = true
			i += 2
		}
	}
	return nil
}

// parseMouse decodes the body of an SGR report "b;x;y(M|m)" following ESC [ <.
// It returns the bytes consumed and whether the report was valid. n < 0 means
// the report is incomplete.
func parseMouse(buf []byte, m *Mouse) (int, bool) {
	end := bytes.IndexAny(buf, "Mm")
	if end < 0 {
		if len(buf) < maxPendingLen && len(bytes.Trim(buf, "0123456789;")) == 0 {
			return -1, false
		}
		return 0, false
	}

	fields := bytes.Split(buf[:end], []byte{';'})
	if len(fields) != 3 {
		return 0, false
	}
	code, err1 := strconv.Atoi(string(fields[0]))
	col, err2 := strconv.Atoi(string(fields[1]))
	row, err3 := strconv.Atoi(string(fields[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	release := buf[end] == 'm'
	code &^= modifierMask

	switch {
	case code&wheelFlag != 0:
		if code&1 == 0 {
			m.WheelUp++
		} else {
			m.WheelDown++
		}
	case code&motionFlag != 0:
		m.Moved = true
		m.Col, m.Row = col, row
		if code&3 == buttonNone {
			m.Held = false
		}
	case code&3 == buttonLeft:
		m.Moved = true
		m.Col, m.Row = col, row
		if release {
			m.Release = true
			m.Held = false
		} else {
			m.Press = true
			m.Held = true
		}
	}
	return end + 1, true
}

// applyByte handles a single non-escape byte.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'a', 'A', 'h', 'H':
		in.Left = true
	case 'd', 'D', 'l', 'L':
		in.Right = true
	case 'w', 'W', 'k', 'K':
		in.Up = true
	case 's', 'S', 'j', 'J':
		in.Down = true
	case ' ':
		in.Space = true
	case '\n', '\r':
		in.Enter = true
	}
}
