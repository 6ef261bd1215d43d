// aviation/axes.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import "strings"

// Axis identifies one of the user-editable runway dimensions.
type Axis uint8

const (
	AxisLength Axis = 1 << iota
	AxisHeading
	AxisCenter
	AxisHighEnd
	AxisLowEnd
)

const (
	axesLengthHeading = AxisLength | AxisHeading
	axesCoordinates   = AxisCenter | AxisHighEnd | AxisLowEnd
)

func (a Axis) String() string {
	var s []string
	for _, n := range []struct {
		axis Axis
		name string
	}{{AxisLength, "length"}, {AxisHeading, "heading"}, {AxisCenter, "center"},
		{AxisHighEnd, "high end"}, {AxisLowEnd, "low end"}} {
		if a&n.axis != 0 {
			s = append(s, n.name)
		}
	}
	return strings.Join(s, "+")
}

// AxisSet is the set of independent axes: the dimensions the user has
// most recently specified, from which all of the others are derived. Only
// the legal combinations, each with two degrees of freedom, can be
// represented. The zero value is the default set.
type AxisSet uint8

const (
	AxesLengthHeadingCenter AxisSet = iota
	AxesLengthHeadingHighEnd
	AxesLengthHeadingLowEnd
	AxesHighEndLowEnd
	AxesCenterLowEnd
	AxesCenterHighEnd
)

const DefaultAxes = AxesLengthHeadingCenter

var axisSetMasks = [...]Axis{
	AxesLengthHeadingCenter:  axesLengthHeading | AxisCenter,
	AxesLengthHeadingHighEnd: axesLengthHeading | AxisHighEnd,
	AxesLengthHeadingLowEnd:  axesLengthHeading | AxisLowEnd,
	AxesHighEndLowEnd:        AxisHighEnd | AxisLowEnd,
	AxesCenterLowEnd:         AxisCenter | AxisLowEnd,
	AxesCenterHighEnd:        AxisCenter | AxisHighEnd,
}

// Mask returns the independent axes as a bitmask, e.g. for mirroring the
// state in toggle buttons.
func (s AxisSet) Mask() Axis {
	if int(s) >= len(axisSetMasks) {
		return axisSetMasks[DefaultAxes]
	}
	return axisSetMasks[s]
}

func (s AxisSet) Has(a Axis) bool {
	return s.Mask()&a != 0
}

func (s AxisSet) String() string {
	return s.Mask().String()
}

func (s AxisSet) hasLengthHeading() bool {
	return s.Mask()&axesLengthHeading != 0
}

func (s AxisSet) coordinates() Axis {
	return s.Mask() & axesCoordinates
}

func lengthHeadingWith(coord Axis) AxisSet {
	switch coord {
	case AxisHighEnd:
		return AxesLengthHeadingHighEnd
	case AxisLowEnd:
		return AxesLengthHeadingLowEnd
	default:
		return AxesLengthHeadingCenter
	}
}

func coordinatePair(coords Axis) AxisSet {
	switch coords {
	case AxisHighEnd | AxisLowEnd:
		return AxesHighEndLowEnd
	case AxisCenter | AxisLowEnd:
		return AxesCenterLowEnd
	case AxisCenter | AxisHighEnd:
		return AxesCenterHighEnd
	default:
		return DefaultAxes
	}
}

// Select returns the axis set that results from the user specifying axis.
// Length and heading are inseparable; picking either keeps the single
// independent coordinate or, when two coordinates were independent, the
// lowest-numbered of them. Picking a second coordinate makes the pair
// independent, picking one of an independent pair hands its degree of
// freedom back to length and heading, and picking the third coordinate
// swaps pairs, always keeping the high end over the center. Anything
// unexpected resets to DefaultAxes.
//
// A click sequence that could be read as first releasing length and
// heading and then adding a coordinate never passes through a set with a
// lone independent coordinate: that runway would be underdetermined and
// isn't representable as an AxisSet. The second coordinate forms the pair
// in a single transition, which is where the two-step reading ends up.
func (s AxisSet) Select(axis Axis) AxisSet {
	if int(s) >= len(axisSetMasks) {
		return DefaultAxes
	}

	switch axis {
	case AxisLength, AxisHeading, axesLengthHeading:
		if s.hasLengthHeading() {
			return s
		}
		coords := s.coordinates()
		for _, c := range []Axis{AxisCenter, AxisHighEnd, AxisLowEnd} {
			if coords&c != 0 {
				return lengthHeadingWith(c)
			}
		}
		return DefaultAxes

	case AxisCenter, AxisHighEnd, AxisLowEnd:
		coords := s.coordinates()
		if s.hasLengthHeading() {
			if coords == axis {
				return s
			}
			return coordinatePair(coords | axis)
		}
		if coords&axis != 0 {
			return lengthHeadingWith(coords &^ axis)
		}
		// The third coordinate.
		if axis == AxisCenter {
			return AxesCenterHighEnd
		}
		return AxesHighEndLowEnd

	default:
		return DefaultAxes
	}
}

// swapEnds returns the set with the roles of the high and low ends
// exchanged.
func (s AxisSet) swapEnds() AxisSet {
	switch s {
	case AxesLengthHeadingHighEnd:
		return AxesLengthHeadingLowEnd
	case AxesLengthHeadingLowEnd:
		return AxesLengthHeadingHighEnd
	case AxesCenterLowEnd:
		return AxesCenterHighEnd
	case AxesCenterHighEnd:
		return AxesCenterLowEnd
	default:
		return s
	}
}
