// math/core.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Everything here is float64: runway thresholds are placed by offsetting
// from a center point and float32 can't hold a position to within a foot.

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

func Sin(a float64) float64 { return gomath.Sin(a) }

func Cos(a float64) float64 { return gomath.Cos(a) }

func Atan2(y, x float64) float64 { return gomath.Atan2(y, x) }

func Sqrt(a float64) float64 { return gomath.Sqrt(a) }

func SafeASin(a float64) float64 {
	return gomath.Asin(Clamp(a, -1, 1))
}

func Mod(a, b float64) float64 {
	return gomath.Mod(a, b)
}

func Floor(v float64) float64 {
	return gomath.Floor(v)
}

// Round rounds half away from zero.
func Round(v float64) float64 {
	return gomath.Round(v)
}

func IsNaN(v float64) bool {
	return gomath.IsNaN(v)
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// SaturatingSub returns a-b, or zero if b > a.
func SaturatingSub[T constraints.Unsigned](a, b T) T {
	if b > a {
		return 0
	}
	return a - b
}

// RoundToUnsigned rounds v to the nearest integer and clamps the result
// to the range of T; NaN maps to zero.
func RoundToUnsigned[T constraints.Unsigned](v float64) T {
	if gomath.IsNaN(v) || v <= 0 {
		return 0
	}
	mx := float64(^T(0))
	return T(min(Round(v), mx))
}
