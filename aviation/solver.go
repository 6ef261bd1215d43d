// aviation/solver.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"github.com/mmp/aerodb/math"
)

// Recompute derives all of the dependent runway dimensions from the
// independent ones. The runway heading is the true course at the center:
// the high end threshold lies behind the center along it and the low end
// threshold ahead of it. It returns true if the heading and length were
// derived from the threshold coordinates.
func (r *RunwayGeometry) Recompute() bool {
	halfNM := float64(r.Length) * math.FeetToNauticalMiles / 2
	hdg := r.HE.Heading.Degrees()
	back := math.OppositeHeading(hdg)

	fromCoords := false
	switch r.Axes {
	case AxesLengthHeadingCenter:
		r.HE.Coord = math.Offset2LL(r.Center, back, halfNM)
		r.LE.Coord = math.Offset2LL(r.Center, hdg, halfNM)

	case AxesLengthHeadingHighEnd:
		r.Center = centerFromEnd(r.HE.Coord, back, halfNM)
		r.LE.Coord = math.Offset2LL(r.Center, hdg, halfNM)

	case AxesLengthHeadingLowEnd:
		r.Center = centerFromEnd(r.LE.Coord, hdg, halfNM)
		r.HE.Coord = math.Offset2LL(r.Center, back, halfNM)

	case AxesHighEndLowEnd:
		r.Center = math.Mid2LL(r.HE.Coord, r.LE.Coord)
		fromCoords = true

	case AxesCenterLowEnd:
		r.HE.Coord = math.Reflect2LL(r.Center, r.LE.Coord)
		fromCoords = true

	case AxesCenterHighEnd:
		r.LE.Coord = math.Reflect2LL(r.Center, r.HE.Coord)
		fromCoords = true

	default:
		r.Axes = DefaultAxes
		return r.Recompute()
	}

	if fromCoords {
		if r.Center != r.LE.Coord {
			r.setHeadings(math.BAM16FromDegrees(math.InitialCourse2LL(r.Center, r.LE.Coord)))
		}
		r.Length = math.RoundToUnsigned[uint32](math.NMDistance2LL(r.HE.Coord, r.LE.Coord) * math.NauticalMilesToFeet)
	}

	r.UpdateDeclaredDistances()

	return fromCoords
}

// centerFromEnd returns the point dist nautical miles from end at which
// the true course toward end is hdg. Great circle courses change along
// the way, so the departure course from end is refined until the course
// at the far point matches.
func centerFromEnd(end math.Point2LL, hdg float64, dist float64) math.Point2LL {
	course := math.OppositeHeading(hdg)
	c := math.Offset2LL(end, course, dist)
	for range 4 {
		if c == end {
			break
		}
		course += math.HeadingSignedTurn(math.InitialCourse2LL(c, end), hdg)
		c = math.Offset2LL(end, course, dist)
	}
	return c
}
