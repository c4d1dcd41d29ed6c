package draw

import (
	"fmt"
	"io"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a canvas pixel color. ColorNone marks an unset pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGray
	ColorCyan
	ColorBrightCyan
	ColorYellow
	ColorRed
	ColorMagenta
)

// ColorReset restores the default terminal colors.
const ColorReset = "\033[0m"

var colorCodes = [...]string{
	ColorNone:       ColorReset,
	ColorWhite:      "\033[97m",
	ColorGray:       "\033[90m",
	ColorCyan:       "\033[36m",
	ColorBrightCyan: "\033[96m",
	ColorYellow:     "\033[93m",
	ColorRed:        "\033[91m",
	ColorMagenta:    "\033[95m",
}

// Code returns the SGR sequence selecting the color as foreground.
func (c Color) Code() string {
	if int(c) < len(colorCodes) {
		return colorCodes[c]
	}
	return ColorReset
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// EnableMouse turns on any-motion mouse tracking with SGR extended reports,
// so the pointer is reported even with no button held.
func EnableMouse(w io.Writer) {
	fmt.Fprint(w, "\033[?1003h\033[?1006h")
}

// DisableMouse turns mouse tracking off again.
func DisableMouse(w io.Writer) {
	fmt.Fprint(w, "\033[?1006l\033[?1003l")
}

// EnterAltScreen switches to the alternate screen buffer.
func EnterAltScreen(w io.Writer) {
	fmt.Fprint(w, "\033[?1049h")
}

// LeaveAltScreen returns to the main screen buffer.
func LeaveAltScreen(w io.Writer) {
	fmt.Fprint(w, "\033[?1049l")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
