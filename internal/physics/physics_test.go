package physics

import (
	"math"
	"testing"
)

func TestCirclesOverlap(t *testing.T) {
	tests := []struct {
		name   string
		x2, y2 float64
		want   bool
	}{
		{"close obstacle", 110, 100, true},
		{"far obstacle", 200, 100, false},
		{"exactly touching", 135, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CirclesOverlap(100, 100, 15, tt.x2, tt.y2, 20); got != tt.want {
				t.Fatalf("CirclesOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSmoothConverges(t *testing.T) {
	v := 0.0
	for i := 0; i < 200; i++ {
		v = Smooth(v, 100, 0.1)
		if v > 100 {
			t.Fatalf("smoothing overshot target: %f", v)
		}
	}
	if math.Abs(v-100) > 0.01 {
		t.Fatalf("value after 200 steps = %f, want ~100", v)
	}
}

func TestClampF(t *testing.T) {
	if got := ClampF(-5, 0, 10); got != 0 {
		t.Fatalf("ClampF below range = %f, want 0", got)
	}
	if got := ClampF(50, 0, 10); got != 10 {
		t.Fatalf("ClampF above range = %f, want 10", got)
	}
	if got := ClampF(7, 0, 10); got != 7 {
		t.Fatalf("ClampF inside range = %f, want 7", got)
	}
	if got := ClampF(3, 55, 45); got != 50 {
		t.Fatalf("ClampF inverted range = %f, want midpoint 50", got)
	}
}

func TestRotate(t *testing.T) {
	x, y := Rotate(1, 0, Deg2Rad(90))
	if math.Abs(x) > 1e-9 || math.Abs(y-1) > 1e-9 {
		t.Fatalf("Rotate(1,0,90°) = (%f,%f), want (0,1)", x, y)
	}
}
