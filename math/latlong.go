// math/latlong.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	"regexp"
	"strconv"
)

const NMPerLatitude = 60

const NauticalMilesToFeet = 6076.12
const FeetToNauticalMiles = 1 / NauticalMilesToFeet

// Mean earth radius; 6371km expressed in nautical miles.
const EarthRadiusNM = 6371000 / 1852.0

///////////////////////////////////////////////////////////////////////////
// Point2LL

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float64

func (p Point2LL) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

// DDString returns the position in decimal degrees, e.g.:
// (39.860901, -75.274864)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

// DMSString returns the position in degrees minutes, seconds, e.g.
// N039.51.39.243,W075.16.29.511
func (p Point2LL) DMSString() string {
	format := func(v float64) string {
		s := fmt.Sprintf("%03d", int(v))
		v -= Floor(v)
		v *= 60
		s += fmt.Sprintf(".%02d", int(v))
		v -= Floor(v)
		v *= 60
		s += fmt.Sprintf(".%02d", int(v))
		v -= Floor(v)
		v *= 1000
		s += fmt.Sprintf(".%03d", int(v))
		return s
	}

	var s string
	if p[1] >= 0 {
		s = "N"
	} else {
		s = "S"
	}
	s += format(Abs(p[1]))

	if p[0] >= 0 {
		s += ",E"
	} else {
		s += ",W"
	}
	s += format(Abs(p[0]))

	return s
}

var (
	// pair of floats (no exponents)
	reWaypointFloat = regexp.MustCompile(`^(\-?[0-9]+\.[0-9]+), *(\-?[0-9]+\.[0-9]+)`)
	// e.g. N40.37.58.400, W073.46.17.000
	reWaypointDotted = regexp.MustCompile(`^([NS])([0-9]+)\.([0-9]+)\.([0-9]+)\.([0-9]+), *([EW])([0-9]+)\.([0-9]+)\.([0-9]+)\.([0-9]+)`)
)

// ParseLatLong parses positions given either as dotted degrees, minutes,
// seconds and thousandths ("N40.37.58.400,W073.46.17.000") or as a pair
// of decimal degrees, latitude first ("40.6328888, -73.771385").
func ParseLatLong(llstr []byte) (Point2LL, error) {
	var p Point2LL
	if strs := reWaypointDotted.FindStringSubmatch(string(llstr)); len(strs) == 11 {
		parse := func(hemi string, s []string) (float64, error) {
			var v float64
			scales := [4]float64{1, 60, 3600, 3600000}
			for i, str := range s {
				n, err := strconv.Atoi(str)
				if err != nil {
					return 0, err
				}
				if i == 3 {
					// Treat the last set of digits as a decimal, so that
					// Nxx.yy.zz.1 is handled like Nxx.yy.zz.100.
					for j := len(str); j < 3; j++ {
						n *= 10
					}
				}
				v += float64(n) / scales[i]
			}
			if hemi == "S" || hemi == "W" {
				v = -v
			}
			return v, nil
		}

		var err error
		if p[1], err = parse(strs[1], strs[2:6]); err != nil {
			return Point2LL{}, err
		}
		if p[0], err = parse(strs[6], strs[7:11]); err != nil {
			return Point2LL{}, err
		}
		return p, nil
	} else if strs := reWaypointFloat.FindStringSubmatch(string(llstr)); len(strs) == 3 {
		if l, err := strconv.ParseFloat(strs[1], 64); err != nil {
			return Point2LL{}, err
		} else {
			p[1] = l
		}
		if l, err := strconv.ParseFloat(strs[2], 64); err != nil {
			return Point2LL{}, err
		} else {
			p[0] = l
		}
		return p, nil
	} else {
		return Point2LL{}, fmt.Errorf("%s: invalid latlong string", llstr)
	}
}

///////////////////////////////////////////////////////////////////////////
// Great circle geometry
//
// All of the following treat the earth as a sphere; see
// https://www.movable-type.co.uk/scripts/latlong.html for derivations.

func normalizeLongitude(lon float64) float64 {
	return NormalizeHeading(lon+180) - 180
}

// NMDistance2LL returns the great circle distance in nautical miles
// between two provided lat-long coordinates.
func NMDistance2LL(a Point2LL, b Point2LL) float64 {
	lat1, lon1 := Radians(a[1]), Radians(a[0])
	lat2, lon2 := Radians(b[1]), Radians(b[0])
	dlat, dlon := lat2-lat1, lon2-lon1

	x := Sqr(Sin(dlat/2)) + Cos(lat1)*Cos(lat2)*Sqr(Sin(dlon/2))
	c := 2 * Atan2(Sqrt(x), Sqrt(Clamp(1-x, 0, 1)))
	return EarthRadiusNM * c
}

// InitialCourse2LL returns the true course, in degrees, at from of the
// great circle from from to to.
func InitialCourse2LL(from Point2LL, to Point2LL) float64 {
	lat1, lat2 := Radians(from[1]), Radians(to[1])
	dlon := Radians(to[0] - from[0])

	y := Sin(dlon) * Cos(lat2)
	x := Cos(lat1)*Sin(lat2) - Sin(lat1)*Cos(lat2)*Cos(dlon)
	return NormalizeHeading(Degrees(Atan2(y, x)))
}

// Offset2LL returns the point reached by travelling dist nautical miles
// from p along the great circle with initial true course hdg.
func Offset2LL(p Point2LL, hdg float64, dist float64) Point2LL {
	lat1, lon1 := Radians(p[1]), Radians(p[0])
	theta := Radians(hdg)
	delta := dist / EarthRadiusNM

	lat2 := SafeASin(Sin(lat1)*Cos(delta) + Cos(lat1)*Sin(delta)*Cos(theta))
	lon2 := lon1 + Atan2(Sin(theta)*Sin(delta)*Cos(lat1), Cos(delta)-Sin(lat1)*Sin(lat2))

	return Point2LL{normalizeLongitude(Degrees(lon2)), Degrees(lat2)}
}

// Mid2LL returns the point halfway between a and b along the great
// circle joining them.
func Mid2LL(a Point2LL, b Point2LL) Point2LL {
	lat1, lon1 := Radians(a[1]), Radians(a[0])
	lat2 := Radians(b[1])
	dlon := Radians(b[0] - a[0])

	bx := Cos(lat2) * Cos(dlon)
	by := Cos(lat2) * Sin(dlon)
	lat := Atan2(Sin(lat1)+Sin(lat2), Sqrt(Sqr(Cos(lat1)+bx)+Sqr(by)))
	lon := lon1 + Atan2(by, Cos(lat1)+bx)

	return Point2LL{normalizeLongitude(Degrees(lon)), Degrees(lat)}
}

// Reflect2LL returns the reflection of p through center: the point at the
// same great circle distance from center as p, on the opposite side.
func Reflect2LL(center Point2LL, p Point2LL) Point2LL {
	if center == p {
		return p
	}
	hdg := InitialCourse2LL(center, p)
	return Offset2LL(center, OppositeHeading(hdg), NMDistance2LL(center, p))
}
