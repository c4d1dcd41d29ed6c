package draw

import (
	"math"
	"strings"
	"testing"
)

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)

	c.SetFloat(2, 2, ColorWhite)
	var first strings.Builder
	c.Render(&first)
	if !strings.ContainsRune(first.String(), BlockUpperHalf) {
		t.Fatalf("first render missing pixel: %q", first.String())
	}

	var second strings.Builder
	c.Render(&second)
	if second.Len() != 0 {
		t.Errorf("unchanged frame rendered %q", second.String())
	}

	c.Clear()
	var third strings.Builder
	c.Render(&third)
	if !strings.Contains(third.String(), "\033[2;3H ") {
		t.Errorf("cleared pixel not erased: %q", third.String())
	}
}

func TestMarkTextDirtyRepaints(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	var sb strings.Builder
	c.Render(&sb)

	c.MarkTextDirty(4, 2, 3)
	sb.Reset()
	c.Render(&sb)
	if !strings.Contains(sb.String(), "\033[2;4H   ") {
		t.Errorf("dirty cells not repainted: %q", sb.String())
	}
}

func TestHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(3, 1, 3, 2)
	c.setPixel(0, 0, ColorWhite)
	c.setPixel(1, 1, ColorWhite)
	c.setPixel(2, 0, ColorWhite)
	c.setPixel(2, 1, ColorWhite)

	var sb strings.Builder
	c.Render(&sb)
	out := sb.String()
	for _, r := range []rune{BlockUpperHalf, BlockLowerHalf, BlockFull} {
		if !strings.ContainsRune(out, r) {
			t.Errorf("missing %q in %q", r, out)
		}
	}
}

func TestDrawCircleDensity(t *testing.T) {
	count := func(density float64) int {
		c := NewScaledCanvas(40, 20, 40, 40)
		c.DrawCircle(20, 20, 10, density, ColorWhite)
		n := 0
		for _, p := range c.pixels {
			if p != ColorNone {
				n++
			}
		}
		return n
	}

	solid, half, outline := count(1), count(0.5), count(0)
	if !(solid > half && half > outline && outline > 0) {
		t.Errorf("pixel counts solid=%d half=%d outline=%d", solid, half, outline)
	}
	if area := math.Pi * 100; math.Abs(float64(solid)-area) > area*0.15 {
		t.Errorf("solid circle has %d pixels, want about %.0f", solid, area)
	}
}

func TestTerminalToLogicalInvertsScaling(t *testing.T) {
	c := NewScaledCanvas(80, 24, 800, 480)
	c.SetOffset(2, 1)

	x, y := c.TerminalToLogical(13, 6)
	if math.Abs(x-100) > 1e-9 || math.Abs(y-80) > 1e-9 {
		t.Errorf("got (%v, %v), want (100, 80)", x, y)
	}

	col, row := c.LogicalToTerminal(x, y)
	if col+c.OffsetCol() != 13 || row+c.OffsetRow() != 6 {
		t.Errorf("round trip gave (%d, %d)", col+c.OffsetCol(), row+c.OffsetRow())
	}
}

func TestShipShapePointsAlongHeading(t *testing.T) {
	pts := ShipShape(make([]Point, 4), 100, 100, 1, 0, 50, 20)
	if pts[0] != (Point{X: 150, Y: 100}) {
		t.Errorf("nose = %+v", pts[0])
	}
	if pts[1].X != 50 || pts[3].X != 50 || pts[1].Y == pts[3].Y {
		t.Errorf("wings = %+v %+v", pts[1], pts[3])
	}

	up := ShipShape(make([]Point, 4), 100, 100, 0, -1, 50, 20)
	if up[0] != (Point{X: 100, Y: 50}) {
		t.Errorf("vertical nose = %+v", up[0])
	}
}

func TestChunkWriterFlush(t *testing.T) {
	var out strings.Builder
	cw := NewChunkWriter(&out, 2, 1)
	cw.WriteAt(1, 1, "hi")
	cw.WriteString(strings.Repeat("x", 3*maxChunkSize))
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "\033[2;3Hhi") {
		t.Errorf("offset not applied: %q", out.String()[:10])
	}
	if cw.Len() != 0 {
		t.Error("buffer not reset")
	}
}
