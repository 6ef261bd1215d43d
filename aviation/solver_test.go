// aviation/solver_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"testing"

	"github.com/mmp/aerodb/math"
)

func makeRunway(center math.Point2LL, length uint32, hdg float64) RunwayGeometry {
	r := RunwayGeometry{
		Addr:   1,
		Length: length,
		Width:  150,
		Center: center,
		HE:     RunwayEnd{Ident: "27"},
		LE:     RunwayEnd{Ident: "09"},
	}
	r.setHeadings(math.BAM16FromDegrees(hdg))
	r.Recompute()
	return r
}

func TestDeclaredDistances(t *testing.T) {
	r := RunwayGeometry{Length: 6000}
	r.HE.Disp = 200
	r.LE.Disp = 100
	r.UpdateDeclaredDistances()

	if r.HE.LDA != 5800 || r.HE.TDA != 5900 || r.LE.LDA != 5900 || r.LE.TDA != 5800 {
		t.Errorf("declared distances: he lda %d tda %d, le lda %d tda %d; expected 5800 5900 5900 5800",
			r.HE.LDA, r.HE.TDA, r.LE.LDA, r.LE.TDA)
	}

	// Displacements longer than the runway clamp at zero.
	r.SetDisplacement(HighEnd, 7000)
	if r.HE.LDA != 0 || r.LE.TDA != 0 {
		t.Errorf("expected zero distances for oversized displacement, got %d %d", r.HE.LDA, r.LE.TDA)
	}
	if r.HE.TDA != 5900 || r.LE.LDA != 5900 {
		t.Errorf("unrelated distances changed: %d %d", r.HE.TDA, r.LE.LDA)
	}
}

func TestDisplacementLeavesGeometryAlone(t *testing.T) {
	r := makeRunway(math.Point2LL{-73.78, 40.64}, 8000, 310)
	before := r
	r.SetDisplacement(LowEnd, 500)

	if r.HE.Coord != before.HE.Coord || r.LE.Coord != before.LE.Coord || r.HE.Heading != before.HE.Heading ||
		r.Length != before.Length || r.Axes != before.Axes {
		t.Errorf("displacement edit changed geometry: %+v -> %+v", before, r)
	}
	if r.HE.TDA != 7500 || r.LE.LDA != 7500 {
		t.Errorf("declared distances not updated: %d %d", r.HE.TDA, r.LE.LDA)
	}
}

func TestRecomputeFromCenter(t *testing.T) {
	c := math.Point2LL{-75.27, 39.86}
	r := makeRunway(c, 6076, 90) // ~1nm

	if r.LE.Heading != r.HE.Heading.Reciprocal() {
		t.Errorf("headings not reciprocal: %#x %#x", r.HE.Heading, r.LE.Heading)
	}
	// The high end lies behind the center along the heading; it's the
	// threshold aircraft depart from when flying the runway heading.
	if r.HE.Coord[0] >= c[0] || r.LE.Coord[0] <= c[0] {
		t.Errorf("unexpected threshold placement: he %s le %s", r.HE.Coord.DDString(), r.LE.Coord.DDString())
	}
	for _, p := range []math.Point2LL{r.HE.Coord, r.LE.Coord} {
		if d := math.NMDistance2LL(c, p); math.Abs(d-0.5*6076*math.FeetToNauticalMiles) > 1e-6 {
			t.Errorf("threshold %s is %f nm from center", p.DDString(), d)
		}
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	for _, axes := range []AxisSet{AxesLengthHeadingCenter, AxesLengthHeadingHighEnd, AxesLengthHeadingLowEnd,
		AxesHighEndLowEnd, AxesCenterLowEnd, AxesCenterHighEnd} {
		r := makeRunway(math.Point2LL{-122.375, 37.619}, 11870, 298)
		r.HE.Disp, r.LE.Disp = 300, 450
		r.Axes = axes

		r.Recompute()
		first := r
		r.Recompute()
		if r != first {
			t.Errorf("%s: second recompute changed the record:\n%+v\n%+v", axes, first, r)
		}
	}
}

func TestRecomputeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		center math.Point2LL
		length uint32
		hdg    float64
	}{
		{"meridian", math.Point2LL{-73.78, 40.64}, 6000, 0},
		{"equator", math.Point2LL{32.4, 0}, 9000, 90},
		{"low latitude", math.Point2LL{-66.0, 10.0}, 6000, 30},
		{"southern", math.Point2LL{151.18, -33.95}, 8000, 164},
		{"short", math.Point2LL{8.5, 47.45}, 1500, 280},
		{"mid latitude east", math.Point2LL{-20, 37.6}, 11870, 90},
		{"high latitude east", math.Point2LL{-20, 47.5}, 11870, 90},
		{"subarctic east", math.Point2LL{-20, 64.1}, 11870, 90},
		{"subarctic diagonal", math.Point2LL{-22.6, 63.98}, 10000, 47},
		{"southern west", math.Point2LL{166.7, -77.8}, 10000, 270},
	}

	for _, test := range tests {
		for _, from := range []AxisSet{AxesLengthHeadingCenter, AxesLengthHeadingHighEnd, AxesLengthHeadingLowEnd} {
			r := makeRunway(test.center, test.length, test.hdg)
			origHdg := r.HE.Heading
			r.Axes = from
			r.Recompute()
			c := r.Center

			if h := math.BAM16FromDegrees(math.InitialCourse2LL(r.Center, r.LE.Coord)); math.BAM16Difference(h, origHdg) > 1 {
				t.Errorf("%s/%s: course at center %#x, expected %#x", test.name, from, h, origHdg)
			}

			for _, to := range []AxisSet{AxesHighEndLowEnd, AxesCenterLowEnd, AxesCenterHighEnd} {
				rt := r
				rt.Axes = to
				rt.Recompute()

				if d := math.Abs(int64(rt.Length) - int64(test.length)); d > 1 {
					t.Errorf("%s/%s->%s: length %d, expected %d", test.name, from, to, rt.Length, test.length)
				}
				if d := math.BAM16Difference(rt.HE.Heading, origHdg); d > 1 {
					t.Errorf("%s/%s->%s: heading %#x, expected %#x", test.name, from, to, rt.HE.Heading, origHdg)
				}
				if d := math.NMDistance2LL(rt.Center, c) * math.NauticalMilesToFeet; d > 1 {
					t.Errorf("%s/%s->%s: center moved %f ft", test.name, from, to, d)
				}
			}
		}
	}
}

func TestRecomputeFromEnds(t *testing.T) {
	r := makeRunway(math.Point2LL{-87.9, 41.98}, 10000, 270)
	he, le := r.HE.Coord, r.LE.Coord

	// Length+heading with the high end fixed: the low end and center follow.
	r.SetLength(5000)
	if r.Axes != AxesLengthHeadingCenter {
		t.Fatalf("unexpected axes %s", r.Axes)
	}
	r.ToggleAxis(AxisHighEnd)
	r.ToggleAxis(AxisHighEnd)
	if r.Axes != AxesLengthHeadingCenter {
		t.Fatalf("toggling twice gave %s", r.Axes)
	}

	r = makeRunway(math.Point2LL{-87.9, 41.98}, 10000, 270)
	r.Axes = AxesLengthHeadingHighEnd
	r.SetLength(5000)
	if r.HE.Coord != he {
		t.Errorf("independent high end moved")
	}
	if d := math.NMDistance2LL(r.HE.Coord, r.LE.Coord) * math.NauticalMilesToFeet; math.Abs(d-5000) > 0.01 {
		t.Errorf("low end is %f ft from high end", d)
	}

	r = makeRunway(math.Point2LL{-87.9, 41.98}, 10000, 270)
	r.Axes = AxesLengthHeadingLowEnd
	r.SetLength(5000)
	if r.LE.Coord != le {
		t.Errorf("independent low end moved")
	}
	if d := math.NMDistance2LL(r.Center, r.LE.Coord) * math.NauticalMilesToFeet; math.Abs(d-2500) > 0.01 {
		t.Errorf("center is %f ft from low end", d)
	}

	// Center+low end: the high end is the reflection of the low end.
	r = makeRunway(math.Point2LL{-87.9, 41.98}, 10000, 270)
	ec := EditContext{Declination: ConstantDeclination(0)}
	newLE := math.Offset2LL(r.Center, 250, 1)
	r.SetEndCoord(LowEnd, newLE, ec)
	if r.Axes != AxesCenterLowEnd {
		t.Fatalf("unexpected axes %s", r.Axes)
	}
	if d := math.NMDistance2LL(r.Center, r.HE.Coord); math.Abs(d-1) > 1e-9 {
		t.Errorf("reflected high end is %f nm from center", d)
	}
	if math.BAM16Difference(r.HE.Heading, math.BAM16FromDegrees(250)) > 10 {
		t.Errorf("heading %f, expected ~250", r.HE.Heading.Degrees())
	}
	if r.HE.Ident != "25" || r.LE.Ident != "07" {
		t.Errorf("runway renumbered to %s/%s, expected 25/07", r.HE.Ident, r.LE.Ident)
	}

	// Center+high end
	r = makeRunway(math.Point2LL{-87.9, 41.98}, 10000, 270)
	r.Axes = AxesCenterHighEnd
	r.Recompute()
	if d := math.NMDistance2LL(r.LE.Coord, le) * math.NauticalMilesToFeet; d > 0.1 {
		t.Errorf("low end moved %f ft", d)
	}
}

func TestRecomputeDegenerate(t *testing.T) {
	// Coincident thresholds leave the heading alone and give zero length.
	r := RunwayGeometry{Axes: AxesHighEndLowEnd}
	r.setHeadings(0x1234)
	r.Recompute()
	if r.Length != 0 || r.HE.Heading != 0x1234 {
		t.Errorf("degenerate runway: length %d heading %#x", r.Length, r.HE.Heading)
	}

	// An out-of-range axis set is reset.
	r = RunwayGeometry{Axes: AxisSet(99), Length: 1000}
	r.Recompute()
	if r.Axes != DefaultAxes {
		t.Errorf("axes %s after recompute, expected default", r.Axes)
	}
}

func TestPostDecode(t *testing.T) {
	r := makeRunway(math.Point2LL{2.55, 49.01}, 13829, 265)
	c := r.Center
	r.Center = math.Point2LL{}
	r.Axes = AxesHighEndLowEnd

	r.PostDecode()
	if r.Axes != DefaultAxes {
		t.Errorf("axes not reset: %s", r.Axes)
	}
	if d := math.NMDistance2LL(r.Center, c) * math.NauticalMilesToFeet; d > 0.01 {
		t.Errorf("center restored %f ft away", d)
	}
}
