// aviation/ident.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmp/aerodb/math"
)

// splitIdent returns the leading runway number of an identifier and the
// remaining suffix (e.g., "L"). ok is false if there is no number.
func splitIdent(id string) (num int, suffix string, ok bool) {
	suffix = strings.TrimLeft(id, "0123456789")
	digits := id[:len(id)-len(suffix)]
	if digits == "" {
		return 0, suffix, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, suffix, false
	}
	return n, suffix, true
}

func formatRunwayNumber(n int) string {
	n %= 36
	if n <= 0 {
		n += 36
	}
	return fmt.Sprintf("%02d", n)
}

// RenumberIdent replaces the runway number at the start of id with the
// one corresponding to the given magnetic heading, keeping any suffix.
func RenumberIdent(id string, magneticHeading float64) string {
	suffix := strings.TrimLeft(id, "0123456789")
	n := int(math.Round(math.NormalizeHeading(magneticHeading) / 10))
	return formatRunwayNumber(n) + suffix
}

// OppositeRunwayIdent returns the identifier of the other end of the
// runway: the number differs by 18 and left and right are exchanged. It
// returns the empty string if id doesn't start with a runway number.
func OppositeRunwayIdent(id string) string {
	n, suffix, ok := splitIdent(id)
	if !ok {
		return ""
	}

	switch suffix {
	case "L":
		suffix = "R"
	case "R":
		suffix = "L"
	}
	return formatRunwayNumber(n+18) + suffix
}

// CompareIdents orders runway identifiers by number and then by suffix.
// Identifiers without a number sort first.
func CompareIdents(a, b string) int {
	na, sa, oka := splitIdent(a)
	nb, sb, okb := splitIdent(b)
	switch {
	case oka != okb:
		if oka {
			return 1
		}
		return -1
	case na != nb:
		if na < nb {
			return -1
		}
		return 1
	default:
		return strings.Compare(sa, sb)
	}
}

// SetHeading sets the true heading of the runway and renumbers both ends
// from the magnetic heading. If no declination is available for the
// runway's position at time t, the true heading is used as is.
func (r *RunwayGeometry) SetHeading(h math.BAM16, decl Declinator, t time.Time) {
	r.setHeadings(h)

	mag := h.Degrees()
	if decl != nil {
		if d, err := decl.Declination(float64(r.HE.Elevation), r.Center, t); err == nil {
			mag += d
		}
	}

	r.HE.Ident = RenumberIdent(r.HE.Ident, mag)
	r.LE.Ident = RenumberIdent(r.LE.Ident, math.OppositeHeading(mag))
}

// DeriveOppositeEnd fills in the end opposite from using from's data: the
// reciprocal heading, the same elevation and flags, the declared
// distances exchanged and the opposite identifier. If the airport
// reference point arp is known (non-zero), the runway is centered on it.
// Finally the ends are exchanged if necessary so that the high end has
// the greater identifier.
func (r *RunwayGeometry) DeriveOppositeEnd(from End, arp math.Point2LL) {
	src, dst := r.End(from), r.End(from.Opposite())

	dst.Heading = src.Heading.Reciprocal()
	dst.Elevation = src.Elevation
	dst.Usable = src.Usable
	dst.Lights = src.Lights
	dst.TDA, dst.LDA = src.LDA, src.TDA
	// Each end's take-off distance is shortened by the other end's
	// displacement.
	if src.TDA != 0 {
		dst.Disp = math.SaturatingSub(r.Length, src.TDA)
	}
	if id := OppositeRunwayIdent(src.Ident); id != "" {
		dst.Ident = id
	}

	if !arp.IsZero() {
		r.Center = arp
		r.Axes = DefaultAxes
		r.Recompute()
	}

	r.NormalizeEnds()
}

// NormalizeEnds exchanges the two ends if the low end's identifier sorts
// after the high end's.
func (r *RunwayGeometry) NormalizeEnds() bool {
	if CompareIdents(r.LE.Ident, r.HE.Ident) <= 0 {
		return false
	}
	r.HE, r.LE = r.LE, r.HE
	r.Axes = r.Axes.swapEnds()
	return true
}
