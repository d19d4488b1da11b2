package units

import (
	"math"
	"testing"
)

func TestDegRadRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 45, 90, 180, 270, 360, -30} {
		if got := RadToDeg(DegToRad(deg)); math.Abs(got-deg) > 1e-12 {
			t.Errorf("round trip for %v° gave %v°", deg, got)
		}
	}
}

func TestPeriodSeconds(t *testing.T) {
	if got := PeriodSeconds(5); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("5 Hz period = %v, want 0.2", got)
	}
	if got := PeriodSeconds(0); got != 0 {
		t.Errorf("0 Hz period = %v, want 0", got)
	}
	if got := PeriodSeconds(-1); got != 0 {
		t.Errorf("negative rate period = %v, want 0", got)
	}
}

func TestWrapAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{2 * math.Pi, 0},
		{3 * math.Pi, math.Pi},
		{-math.Pi / 2, 3 * math.Pi / 2},
	}
	for _, c := range cases {
		if got := WrapAngle(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("WrapAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
