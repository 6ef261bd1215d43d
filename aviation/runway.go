// aviation/runway.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"time"

	"github.com/mmp/aerodb/math"
	"github.com/mmp/aerodb/util"
)

// End selects one of the two ends of a runway.
type End int

const (
	HighEnd End = iota
	LowEnd
)

func (e End) Opposite() End {
	if e == HighEnd {
		return LowEnd
	}
	return HighEnd
}

func (e End) String() string {
	if e == HighEnd {
		return "he"
	}
	return "le"
}

type RunwayEnd struct {
	Ident     string // e.g. "27R"
	Heading   math.BAM16
	Elevation int32 // feet
	Coord     math.Point2LL
	Disp      uint32 // displaced threshold, feet
	TDA       uint32 // take-off distance available, feet
	LDA       uint32 // landing distance available, feet
	Usable    uint8  // opaque flags, carried through untouched
	Lights    uint16 // opaque flags, carried through untouched
}

// RunwayGeometry is the runway record edited by the dimension solver.
// Distances are in feet. HE.Heading is the true course from the high
// end threshold toward the low end and LE.Heading is always its
// reciprocal.
type RunwayGeometry struct {
	Addr    util.Address
	Airport string
	Length  uint32
	Width   uint32
	HE      RunwayEnd
	LE      RunwayEnd

	// Center and Axes describe the editing state and aren't persisted;
	// PostDecode rebuilds them.
	Center math.Point2LL `msgpack:"-"`
	Axes   AxisSet       `msgpack:"-"`
}

func (r RunwayGeometry) Address() util.Address { return r.Addr }

func (r RunwayGeometry) Valid() bool { return r.Addr != 0 }

// EditContext provides the external services that some edits consult.
type EditContext struct {
	Declination Declinator
	Now         func() time.Time
}

func (ec EditContext) now() time.Time {
	if ec.Now == nil {
		return time.Now()
	}
	return ec.Now()
}

func (r *RunwayGeometry) End(e End) *RunwayEnd {
	if e == HighEnd {
		return &r.HE
	}
	return &r.LE
}

// PostDecode restores the non-persisted editing state after a record has
// been read back from storage: the center is taken to be the midpoint of
// the two thresholds and the default axes are selected.
func (r *RunwayGeometry) PostDecode() {
	r.Axes = DefaultAxes
	if !r.HE.Coord.IsZero() && !r.LE.Coord.IsZero() {
		r.Center = math.Mid2LL(r.HE.Coord, r.LE.Coord)
	}
}

// SelectAxis is called when the user edits a field belonging to axis; if
// the axis isn't already independent, the independent axis set is
// updated accordingly.
func (r *RunwayGeometry) SelectAxis(axis Axis) {
	if !r.Axes.Has(axis) {
		r.Axes = r.Axes.Select(axis)
	}
}

// ToggleAxis applies an explicit click on an axis toggle, which may also
// deselect it.
func (r *RunwayGeometry) ToggleAxis(axis Axis) {
	r.Axes = r.Axes.Select(axis)
}

func (r *RunwayGeometry) setHeadings(h math.BAM16) {
	r.HE.Heading = h
	r.LE.Heading = h.Reciprocal()
}

// UpdateDeclaredDistances recomputes the declared distances from the
// length and the displaced thresholds. A threshold displacement shortens
// the landing distance at its own end and the take-off distance at the
// opposite end.
func (r *RunwayGeometry) UpdateDeclaredDistances() {
	r.HE.LDA = math.SaturatingSub(r.Length, r.HE.Disp)
	r.HE.TDA = math.SaturatingSub(r.Length, r.LE.Disp)
	r.LE.LDA = math.SaturatingSub(r.Length, r.LE.Disp)
	r.LE.TDA = math.SaturatingSub(r.Length, r.HE.Disp)
}

///////////////////////////////////////////////////////////////////////////
// Field edits

func (r *RunwayGeometry) SetLength(ft uint32) {
	r.SelectAxis(AxisLength)
	r.Length = ft
	r.Recompute()
}

// SetTrueHeading sets the runway heading, renumbering the runway ends
// from the corresponding magnetic heading.
func (r *RunwayGeometry) SetTrueHeading(h math.BAM16, ec EditContext) {
	r.SelectAxis(AxisHeading)
	r.SetHeading(h, ec.Declination, ec.now())
	r.Recompute()
}

func (r *RunwayGeometry) SetCenter(p math.Point2LL, ec EditContext) {
	r.SelectAxis(AxisCenter)
	r.Center = p
	r.recomputeAndRenumber(ec)
}

func (r *RunwayGeometry) SetEndCoord(e End, p math.Point2LL, ec EditContext) {
	if e == HighEnd {
		r.SelectAxis(AxisHighEnd)
	} else {
		r.SelectAxis(AxisLowEnd)
	}
	r.End(e).Coord = p
	r.recomputeAndRenumber(ec)
}

// SetDisplacement changes a displaced threshold; only the declared
// distances are affected.
func (r *RunwayGeometry) SetDisplacement(e End, ft uint32) {
	r.End(e).Disp = ft
	r.UpdateDeclaredDistances()
}

func (r *RunwayGeometry) SetWidth(ft uint32) {
	r.Width = ft
}

func (r *RunwayGeometry) SetElevation(e End, ft int32) {
	r.End(e).Elevation = ft
}

func (r *RunwayGeometry) recomputeAndRenumber(ec EditContext) {
	if r.Recompute() {
		r.SetHeading(r.HE.Heading, ec.Declination, ec.now())
	}
}
