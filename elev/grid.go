// elev/grid.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package elev

import (
	"context"
	"fmt"
	"io"
	gomath "math"

	"github.com/mmp/aerodb/math"
	"github.com/mmp/aerodb/util"
)

// Grid is a terrain model sampled on a regular latitude-longitude grid,
// stored latitude-major with elevations in feet. It implements Provider
// by bilinear interpolation of the samples.
type Grid struct {
	MinLatitude, MaxLatitude   float64
	MinLongitude, MaxLongitude float64
	Step                       float64
	Feet                       []float32
}

func (g *Grid) dims() (nlat, nlong int) {
	nlat = int(1 + math.Round((g.MaxLatitude-g.MinLatitude)/g.Step))
	nlong = int(1 + math.Round((g.MaxLongitude-g.MinLongitude)/g.Step))
	return
}

func (g *Grid) validate() error {
	if g.Step <= 0 || g.MaxLatitude < g.MinLatitude || g.MaxLongitude < g.MinLongitude {
		return fmt.Errorf("bounds [%f,%f]x[%f,%f] step %f: %w", g.MinLatitude, g.MaxLatitude,
			g.MinLongitude, g.MaxLongitude, g.Step, ErrInvalidGrid)
	}
	if nlat, nlong := g.dims(); len(g.Feet) != nlat*nlong {
		return fmt.Errorf("found %d samples, expected %d x %d: %w", len(g.Feet), nlat, nlong, ErrInvalidGrid)
	}
	return nil
}

// LoadGrid reads a grid written by Grid.Encode.
func LoadGrid(r io.Reader) (*Grid, error) {
	var g Grid
	if err := util.DecodeMsgpackZstd(r, &g); err != nil {
		return nil, err
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g *Grid) Encode(w io.Writer) error {
	if err := g.validate(); err != nil {
		return err
	}
	return util.EncodeMsgpackZstd(w, g)
}

func (g *Grid) sample(ilat, ilong, nlong int) float64 {
	return float64(g.Feet[ilong+nlong*ilat])
}

// Lookup returns the interpolated elevation at p, or NaN if p is outside
// the grid.
func (g *Grid) Lookup(p math.Point2LL) float32 {
	if p[0] < g.MinLongitude || p[0] > g.MaxLongitude || p[1] < g.MinLatitude || p[1] > g.MaxLatitude {
		return float32(gomath.NaN())
	}

	nlat, nlong := g.dims()
	fy := (p[1] - g.MinLatitude) / g.Step
	fx := (p[0] - g.MinLongitude) / g.Step
	y0 := min(int(fy), nlat-1)
	x0 := min(int(fx), nlong-1)
	y1, x1 := min(y0+1, nlat-1), min(x0+1, nlong-1)
	dy, dx := fy-float64(y0), fx-float64(x0)

	e0 := (1-dx)*g.sample(y0, x0, nlong) + dx*g.sample(y0, x1, nlong)
	e1 := (1-dx)*g.sample(y1, x0, nlong) + dx*g.sample(y1, x1, nlong)
	return float32((1-dy)*e0 + dy*e1)
}

func (g *Grid) Elevations(ctx context.Context, positions []math.Point2LL) ([]float32, error) {
	elev := make([]float32, len(positions))
	for i, p := range positions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		elev[i] = g.Lookup(p)
	}
	return elev, nil
}
