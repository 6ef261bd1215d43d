// aviation/ident_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	"testing"
	"time"

	"github.com/mmp/aerodb/math"
)

func TestRenumberIdent(t *testing.T) {
	tests := []struct {
		id       string
		hdg      float64
		expected string
	}{
		{"09", 271, "27"},
		{"4L", 44, "04L"},
		{"22R", 224.9, "22R"},
		{"13C", 134.9, "13C"},
		{"36", 3, "36"}, // never 00
		{"01", 356, "36"},
		{"", 95, "10"},
		{"H", 180, "18H"},
		{"27W", -90, "27W"},
	}

	for _, test := range tests {
		if got := RenumberIdent(test.id, test.hdg); got != test.expected {
			t.Errorf("RenumberIdent(%q, %f) = %q, expected %q", test.id, test.hdg, got, test.expected)
		}
	}
}

func TestOppositeRunwayIdent(t *testing.T) {
	tests := []struct {
		id, expected string
	}{
		{"09", "27"},
		{"27", "09"},
		{"18", "36"},
		{"36", "18"},
		{"4L", "22R"},
		{"22R", "04L"},
		{"13C", "31C"},
		{"17W", "35W"},
		{"L", ""},
		{"", ""},
	}

	for _, test := range tests {
		if got := OppositeRunwayIdent(test.id); got != test.expected {
			t.Errorf("OppositeRunwayIdent(%q) = %q, expected %q", test.id, got, test.expected)
		}
	}
}

func TestCompareIdents(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"09", "27", -1},
		{"27", "09", 1},
		{"9", "09", 0},
		{"04L", "04R", -1},
		{"H1", "01", -1},
		{"36", "35R", 1},
	}
	for _, test := range tests {
		if got := CompareIdents(test.a, test.b); got != test.expected {
			t.Errorf("CompareIdents(%q, %q) = %d, expected %d", test.a, test.b, got, test.expected)
		}
	}
}

type failingDeclinator struct{}

func (failingDeclinator) Declination(float64, math.Point2LL, time.Time) (float64, error) {
	return 0, errors.New("no model for that epoch")
}

func TestSetHeading(t *testing.T) {
	r := RunwayGeometry{HE: RunwayEnd{Ident: "09L"}, LE: RunwayEnd{Ident: "27R"}}
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// A 13 degree correction turns a true heading of 040 into 053.
	r.SetHeading(math.BAM16FromDegrees(40), ConstantDeclination(13), now)
	if r.HE.Heading != math.BAM16FromDegrees(40) || r.LE.Heading != math.BAM16FromDegrees(220) {
		t.Errorf("headings %f/%f, expected 40/220", r.HE.Heading.Degrees(), r.LE.Heading.Degrees())
	}
	if r.HE.Ident != "05L" || r.LE.Ident != "23R" {
		t.Errorf("idents %s/%s, expected 05L/23R", r.HE.Ident, r.LE.Ident)
	}

	// Without a declination the true heading is used.
	r.SetHeading(math.BAM16FromDegrees(40), failingDeclinator{}, now)
	if r.HE.Ident != "04L" || r.LE.Ident != "22R" {
		t.Errorf("idents %s/%s, expected 04L/22R", r.HE.Ident, r.LE.Ident)
	}
	r.SetHeading(math.BAM16FromDegrees(181), nil, now)
	if r.HE.Ident != "18L" || r.LE.Ident != "36R" {
		t.Errorf("idents %s/%s, expected 18L/36R", r.HE.Ident, r.LE.Ident)
	}
}

func TestSetTrueHeadingMovesEnds(t *testing.T) {
	r := makeRunway(math.Point2LL{-118.41, 33.94}, 12000, 263)
	c := r.Center
	r.SetTrueHeading(math.BAM16FromDegrees(83), EditContext{Declination: ConstantDeclination(-12)})

	if r.Axes != AxesLengthHeadingCenter {
		t.Errorf("axes %s", r.Axes)
	}
	if r.Center != c {
		t.Errorf("center moved")
	}
	if h := math.InitialCourse2LL(r.Center, r.LE.Coord); math.HeadingDifference(h, 83) > 0.01 {
		t.Errorf("course from center to low end %f, expected ~83", h)
	}
	if r.HE.Ident != "07" || r.LE.Ident != "25" {
		t.Errorf("idents %s/%s, expected 07/25", r.HE.Ident, r.LE.Ident)
	}
}

func TestDeriveOppositeEnd(t *testing.T) {
	r := RunwayGeometry{Addr: 3, Length: 6000}
	r.HE = RunwayEnd{
		Ident:     "09L",
		Heading:   math.BAM16FromDegrees(92),
		Elevation: 412,
		Disp:      200,
		Usable:    0x5,
		Lights:    0x102,
	}
	r.LE.Disp = 100
	r.UpdateDeclaredDistances()
	r.LE = RunwayEnd{Ident: "junk"}

	arp := math.Point2LL{-80.29, 25.79}
	r.DeriveOppositeEnd(HighEnd, arp)

	// 27R sorts after 09L, so the ends were exchanged.
	if r.HE.Ident != "27R" || r.LE.Ident != "09L" {
		t.Fatalf("idents %s/%s, expected 27R/09L", r.HE.Ident, r.LE.Ident)
	}
	he, le := r.HE, r.LE
	if he.Heading != le.Heading.Reciprocal() || le.Heading != math.BAM16FromDegrees(92) {
		t.Errorf("headings %f/%f", he.Heading.Degrees(), le.Heading.Degrees())
	}
	if he.Elevation != 412 || he.Usable != 0x5 || he.Lights != 0x102 {
		t.Errorf("derived end data not carried over: %+v", he)
	}
	if he.Disp != 100 || he.LDA != 5900 || he.TDA != 5800 || le.LDA != 5800 || le.TDA != 5900 {
		t.Errorf("declared distances: he %+v le %+v", he, le)
	}
	if r.Center != arp || r.Axes != DefaultAxes {
		t.Errorf("runway not centered on the reference point")
	}
	if d := math.NMDistance2LL(he.Coord, le.Coord) * math.NauticalMilesToFeet; math.Abs(d-6000) > 0.01 {
		t.Errorf("threshold separation %f ft", d)
	}
	if h := math.InitialCourse2LL(r.Center, le.Coord); math.HeadingDifference(h, he.Heading.Degrees()) > 0.01 {
		t.Errorf("course from center %f doesn't match the heading %f", h, he.Heading.Degrees())
	}
}

func TestDeriveOppositeEndWithoutARP(t *testing.T) {
	r := makeRunway(math.Point2LL{-0.46, 51.47}, 12802, 270)
	r.HE.Ident = "27L"
	coords := [2]math.Point2LL{r.HE.Coord, r.LE.Coord}

	r.DeriveOppositeEnd(HighEnd, math.Point2LL{})
	if r.HE.Ident != "27L" || r.LE.Ident != "09R" {
		t.Errorf("idents %s/%s, expected 27L/09R", r.HE.Ident, r.LE.Ident)
	}
	if r.HE.Coord != coords[0] || r.LE.Coord != coords[1] {
		t.Errorf("coordinates changed without a reference point")
	}
}
