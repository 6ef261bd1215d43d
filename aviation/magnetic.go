// aviation/magnetic.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mmp/aerodb/math"
	"github.com/mmp/aerodb/util"
)

// Declinator provides the magnetic variation at a position: the value,
// in degrees, that is added to a true heading to give the magnetic
// heading. An error is returned if no value is available for the given
// position and time.
type Declinator interface {
	Declination(elevation float64, p math.Point2LL, t time.Time) (float64, error)
}

// ConstantDeclination returns the same variation everywhere and always.
type ConstantDeclination float64

func (d ConstantDeclination) Declination(float64, math.Point2LL, time.Time) (float64, error) {
	return float64(d), nil
}

// MagneticGrid holds declination samples from the World Magnetic Model
// on a regular latitude-longitude grid; lookups return the nearest
// sample. The samples are for a single epoch, so the time passed to
// Declination is ignored.
type MagneticGrid struct {
	MinLatitude, MaxLatitude   float64
	MinLongitude, MaxLongitude float64
	LatLongStep                float64
	Samples                    []float32
}

func (mg *MagneticGrid) dims() (nlat, nlong int) {
	nlat = int(1 + (mg.MaxLatitude-mg.MinLatitude)/mg.LatLongStep)
	nlong = int(1 + (mg.MaxLongitude-mg.MinLongitude)/mg.LatLongStep)
	return
}

// LoadMagneticGrid reads declination samples, one per line, latitude
// major, for the grid described by mg's bounds and step. Input with a
// zstd frame header is decompressed transparently.
//
// The sample files are produced by running the NOAA wmm_grid utility
// with the grid's parameters and altitude 0, selecting declination for
// output, and then: awk '{print $5}' < GridResults.txt | zstd -19
func LoadMagneticGrid(mg MagneticGrid, r io.Reader) (*MagneticGrid, error) {
	if mg.LatLongStep <= 0 {
		return nil, ErrInvalidMagneticGrid
	}

	br := bufio.NewReader(r)
	if magic, err := br.Peek(4); err == nil && string(magic) == "\x28\xb5\x2f\xfd" {
		zr, done, err := util.NewZstdReader(br)
		if err != nil {
			return nil, err
		}
		defer done()
		br = bufio.NewReader(zr)
	}

	mg.Samples = nil
	for {
		line, err := br.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			v, perr := strconv.ParseFloat(line, 32)
			if perr != nil {
				return nil, fmt.Errorf("%s: %w", line, perr)
			}
			mg.Samples = append(mg.Samples, float32(v))
		}
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
	}

	nlat, nlong := mg.dims()
	if len(mg.Samples) != nlat*nlong {
		return nil, fmt.Errorf("found %d magnetic grid samples, expected %d x %d = %d: %w",
			len(mg.Samples), nlat, nlong, nlat*nlong, ErrInvalidMagneticGrid)
	}

	return &mg, nil
}

func (mg *MagneticGrid) Lookup(p math.Point2LL) (float64, error) {
	if p[0] < mg.MinLongitude || p[0] > mg.MaxLongitude ||
		p[1] < mg.MinLatitude || p[1] > mg.MaxLatitude {
		return 0, ErrNoDeclination
	}

	nlat, nlong := mg.dims()

	// Round to nearest
	lat := min(int((p[1]-mg.MinLatitude)/mg.LatLongStep+0.5), nlat-1)
	long := min(int((p[0]-mg.MinLongitude)/mg.LatLongStep+0.5), nlong-1)

	// The samples are declination (east positive); flip the sign to get
	// the correction to apply to true headings.
	return -float64(mg.Samples[long+nlong*lat]), nil
}

func (mg *MagneticGrid) Declination(_ float64, p math.Point2LL, _ time.Time) (float64, error) {
	return mg.Lookup(p)
}
