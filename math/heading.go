// math/heading.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// headings and directions

// Reduces it to [0,360).
func NormalizeHeading(h float64) float64 {
	if h < 0 {
		return 360 - NormalizeHeading(-h)
	}
	return Mod(h, 360)
}

func OppositeHeading(h float64) float64 {
	return NormalizeHeading(h + 180)
}

// HeadingDifference returns the minimum difference between two
// headings. (i.e., the result is always in the range [0,180].)
func HeadingDifference(a float64, b float64) float64 {
	d := Abs(NormalizeHeading(a) - NormalizeHeading(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// HeadingSignedTurn returns the signed turn in degrees from cur to
// target; positive is a right turn.
func HeadingSignedTurn(cur, target float64) float64 {
	rot := NormalizeHeading(180 - target)
	return 180 - NormalizeHeading(cur+rot)
}

///////////////////////////////////////////////////////////////////////////
// BAM16

// BAM16 is a 16-bit binary angular measure: 0x10000 units make up a full
// circle, so wraparound comes for free with uint16 arithmetic.
type BAM16 uint16

const BAM16PerDegree = 65536.0 / 360.0

// BAM16FromDegrees converts a heading in degrees to the nearest BAM16
// value; any angle is accepted and wrapped into the circle.
func BAM16FromDegrees(d float64) BAM16 {
	v := int64(Round(NormalizeHeading(d) * BAM16PerDegree))
	return BAM16(v & 0xffff)
}

func (b BAM16) Degrees() float64 {
	return float64(b) / BAM16PerDegree
}

// Reciprocal returns the heading 180 degrees away.
func (b BAM16) Reciprocal() BAM16 {
	return b + 0x8000
}

// BAM16Difference returns the smallest number of BAM16 units between a
// and b, in [0,0x8000].
func BAM16Difference(a, b BAM16) int {
	d := int(uint16(a - b))
	if d > 0x8000 {
		d = 0x10000 - d
	}
	return d
}
