// aviation/parse.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"strconv"
	"strings"

	"github.com/mmp/aerodb/math"
)

// The following parse user-entered text for the runway fields. They never
// fail: text that can't be parsed gives zero, so that an edit always
// leaves the record structurally valid.

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	// Accept trailing units and other junk after the number, e.g. "6000ft".
	end := 0
	for end < len(s) && strings.IndexByte("+-.0123456789eE", s[end]) != -1 {
		end++
	}
	for ; end > 0; end-- {
		if v, err := strconv.ParseFloat(s[:end], 64); err == nil && !math.IsNaN(v) {
			return v
		}
	}
	return 0
}

// ParseDistance parses a non-negative distance in feet.
func ParseDistance(s string) uint32 {
	return math.RoundToUnsigned[uint32](parseNumber(s))
}

// ParseElevation parses an elevation in feet; it may be negative.
func ParseElevation(s string) int32 {
	v := math.Clamp(math.Round(parseNumber(s)), -1e6, 1e6)
	return int32(v)
}

// ParseHeading parses a heading in degrees.
func ParseHeading(s string) math.BAM16 {
	return math.BAM16FromDegrees(parseNumber(s))
}

// ParseCoord parses a position in any of the forms math.ParseLatLong
// accepts.
func ParseCoord(s string) math.Point2LL {
	p, err := math.ParseLatLong([]byte(strings.TrimSpace(s)))
	if err != nil {
		return math.Point2LL{}
	}
	return p
}
