package input

import "testing"

func TestParseKeys(t *testing.T) {
	in := Parse([]byte("q \r\x1b[A\x1b[B"))
	if !in.Quit || !in.Space || !in.Enter || !in.Up || !in.Down {
		t.Errorf("keys not decoded: %+v", in)
	}
	if in.Left || in.Right || in.Mouse.Any() {
		t.Errorf("unexpected input: %+v", in)
	}
}

func TestParseMouse(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want Mouse
	}{
		{"move", "\x1b[<35;10;5M", Mouse{Moved: true, Col: 10, Row: 5}},
		{"press", "\x1b[<0;3;4M", Mouse{Moved: true, Col: 3, Row: 4, Press: true, Held: true}},
		{"release", "\x1b[<0;3;4m", Mouse{Moved: true, Col: 3, Row: 4, Release: true}},
		{"drag", "\x1b[<0;1;1M\x1b[<32;7;8M", Mouse{Moved: true, Col: 7, Row: 8, Press: true, Held: true}},
		{"wheel", "\x1b[<64;1;1M\x1b[<65;1;1M\x1b[<65;1;1M", Mouse{WheelUp: 1, WheelDown: 2}},
		{"shift press", "\x1b[<4;2;2M", Mouse{Moved: true, Col: 2, Row: 2, Press: true, Held: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse([]byte(tt.seq)).Mouse
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseMalformedMouseIgnored(t *testing.T) {
	in := Parse([]byte("\x1b[<0;x;4M "))
	if in.Mouse.Press {
		t.Error("malformed report decoded as press")
	}
	if !in.Space {
		t.Error("bytes after malformed report lost")
	}
}

func feed(s *Stream, b string) {
	for i := 0; i < len(b); i++ {
		s.ch <- b[i]
	}
}

func TestStreamCarriesSplitSequence(t *testing.T) {
	s := &Stream{ch: make(chan byte, 64)}

	feed(s, " \x1b[<0;12")
	first := ReadInput(s)
	if !first.Space {
		t.Error("space before split sequence lost")
	}
	if first.Mouse.Press {
		t.Error("incomplete report decoded early")
	}

	feed(s, ";9M")
	second := ReadInput(s)
	if !second.Mouse.Press || second.Mouse.Col != 12 || second.Mouse.Row != 9 {
		t.Errorf("split report not decoded: %+v", second.Mouse)
	}

	third := ReadInput(s)
	if !third.Mouse.Held || third.Mouse.Press {
		t.Errorf("held state not carried: %+v", third.Mouse)
	}
}

func TestStreamBareEscape(t *testing.T) {
	s := &Stream{ch: make(chan byte, 8)}
	feed(s, "\x1b")
	if in := ReadInput(s); in.Escape {
		t.Error("escape reported before the next frame")
	}
	if in := ReadInput(s); !in.Escape {
		t.Error("bare escape never reported")
	}
}

func TestClosedStreamQuits(t *testing.T) {
	s := &Stream{ch: make(chan byte)}
	close(s.ch)
	if in := ReadInput(s); !in.Quit {
		t.Error("closed stream did not quit")
	}
}
