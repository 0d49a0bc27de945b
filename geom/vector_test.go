package geom

import (
	"math"
	"testing"
)

func TestLength(t *testing.T) {
	v := Vector{X: 3, Y: 4}
	if v.Length() != 5 {
		t.Errorf("expected length 5, got %f", v.Length())
	}
}

func TestSetLength(t *testing.T) {
	v := Vector{X: 3, Y: 4}.SetLength(10)
	if math.Abs(v.X-6) > 1e-12 || math.Abs(v.Y-8) > 1e-12 {
		t.Errorf("expected (6, 8), got (%f, %f)", v.X, v.Y)
	}
}

func TestSetLengthZeroIsNoop(t *testing.T) {
	v := Vector{}.SetLength(5)
	if !v.IsZero() {
		t.Errorf("expected zero vector to stay zero, got (%f, %f)", v.X, v.Y)
	}
}

func TestPolarRoundtrip(t *testing.T) {
	testCases := []struct{ r, theta float64 }{
		{1, 0},
		{2, math.Pi / 2},
		{5, -3 * math.Pi / 4},
	}

	for _, tc := range testCases {
		v := Polar(tc.r, tc.theta)
		if math.Abs(v.Length()-tc.r) > 1e-12 {
			t.Errorf("Polar(%f, %f): length %f", tc.r, tc.theta, v.Length())
		}
		if math.Abs(v.Angle()-tc.theta) > 1e-12 {
			t.Errorf("Polar(%f, %f): angle %f", tc.r, tc.theta, v.Angle())
		}
	}
}

func TestSetAngleKeepsLength(t *testing.T) {
	v := Vector{X: 3, Y: 4}.SetAngle(math.Pi)
	if math.Abs(v.X+5) > 1e-12 || math.Abs(v.Y) > 1e-12 {
		t.Errorf("expected (-5, 0), got (%f, %f)", v.X, v.Y)
	}
}

func TestDistance(t *testing.T) {
	a := Vector{X: 1, Y: 1}
	b := Vector{X: 4, Y: 5}
	if a.Distance(b) != 5 || b.Distance(a) != 5 {
		t.Errorf("expected symmetric distance 5, got %f / %f", a.Distance(b), b.Distance(a))
	}
}
