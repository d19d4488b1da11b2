// Package units provides shared angle and rate conversion helpers.
package units

import "math"

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180.0 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// PeriodSeconds converts a rate in Hz to a period in seconds.
// A non-positive rate returns 0; callers validate rates separately.
func PeriodSeconds(rateHz float64) float64 {
	if rateHz <= 0 {
		return 0
	}
	return 1.0 / rateHz
}

// WrapAngle normalizes an angle in radians to [0, 2π).
func WrapAngle(rad float64) float64 {
	wrapped := math.Mod(rad, 2*math.Pi)
	if wrapped < 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped
}
