// cmd/rwyedit/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// rwyedit inspects and edits the runways in a store file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goforj/godump"

	"github.com/mmp/aerodb/aviation"
	"github.com/mmp/aerodb/elev"
	"github.com/mmp/aerodb/log"
	"github.com/mmp/aerodb/session"
	"github.com/mmp/aerodb/store"
	"github.com/mmp/aerodb/util"
)

var (
	storePath   = flag.String("store", "runways.msgpack.zst", "runway store file")
	logLevel    = flag.String("loglevel", "warn", "logging level: debug, info, warn, error")
	logDir      = flag.String("logdir", "", "write logs to a rotating file in this directory rather than stderr")
	dump        = flag.Bool("dump", false, "dump runways in full after the command runs")
	magGrid     = flag.String("maggrid", "", "world magnetic declination samples, one per line (optionally zstd compressed)")
	magStep     = flag.Float64("magstep", 1, "latitude/longitude spacing of the -maggrid samples")
	declination = flag.Float64("declination", 0, "magnetic variation to use if there is no -maggrid (degrees, east positive)")
	demPath     = flag.String("dem", "", "terrain elevation grid for the elevation command")
	timeout     = flag.Duration("timeout", 30*time.Second, "limit on elevation lookups")
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: rwyedit [flags] command [args...]

commands:
  list
  show ADDR
  new AIRPORT IDENT CENTER LENGTH HEADING
  heading ADDR DEGREES
  length ADDR FEET
  width ADDR FEET
  center ADDR LAT,LONG
  coord ADDR he|le LAT,LONG
  disp ADDR he|le FEET
  elev ADDR he|le FEET
  swap ADDR he|le
  elevation ADDR
  delete ADDR

flags:
`)
	flag.PrintDefaults()
}

func errorExit(msg string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	var lg *log.Logger
	if *logDir != "" {
		lg = log.New(*logLevel, *logDir)
	} else {
		lg = log.NewWriter(os.Stderr, *logLevel)
	}

	st, err := store.Load[aviation.RunwayGeometry](*storePath, lg)
	if errors.Is(err, os.ErrNotExist) {
		lg.Infof("%s: starting a new store", *storePath)
		st, err = store.New[aviation.RunwayGeometry](lg), nil
	}
	errorExit(*storePath, err)

	opts := session.Options{Declination: aviation.ConstantDeclination(-*declination)}
	if *magGrid != "" {
		mg, err := loadMagneticGrid(*magGrid, *magStep)
		errorExit(*magGrid, err)
		opts.Declination = mg
	}
	if *demPath != "" {
		f, err := os.Open(*demPath)
		errorExit(*demPath, err)
		g, err := elev.LoadGrid(f)
		f.Close()
		errorExit(*demPath, err)

		svc := elev.NewService(g, elev.ServiceOptions{Timeout: *timeout}, lg)
		defer svc.Close()
		opts.Elevation = svc
	}

	s := session.New(st, opts, lg)
	defer s.Close()

	modified, err := run(os.Stdout, s, flag.Arg(0), flag.Args()[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", flag.Arg(0), err)
		s.Close()
		os.Exit(1)
	}

	if modified {
		errorExit(*storePath, st.Flush(*storePath))
	}
}

func loadMagneticGrid(path string, step float64) (*aviation.MagneticGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return aviation.LoadMagneticGrid(aviation.MagneticGrid{
		MinLatitude:  -90,
		MaxLatitude:  90,
		MinLongitude: -180,
		MaxLongitude: 180,
		LatLongStep:  step,
	}, f)
}

func parseAddress(s string) (util.Address, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%s: invalid runway address", s)
	}
	return util.Address(v), nil
}

func parseEnd(s string) (aviation.End, error) {
	switch strings.ToLower(s) {
	case "he", "high":
		return aviation.HighEnd, nil
	case "le", "low":
		return aviation.LowEnd, nil
	default:
		return aviation.HighEnd, fmt.Errorf("%s: expected \"he\" or \"le\"", s)
	}
}

func checkArgs(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	return nil
}

// run executes a command and reports whether the store was modified.
func run(w io.Writer, s *session.Session, cmd string, args []string) (bool, error) {
	switch cmd {
	case "list":
		if err := checkArgs(args, 0); err != nil {
			return false, err
		}
		list(w, s)
		return false, nil

	case "show":
		if err := checkArgs(args, 1); err != nil {
			return false, err
		}
		addr, err := parseAddress(args[0])
		if err != nil {
			return false, err
		}
		r, ok := s.Get(addr)
		if !ok {
			return false, session.ErrNoSuchRecord
		}
		show(w, r)
		return false, nil

	case "new":
		if err := checkArgs(args, 5); err != nil {
			return false, err
		}
		r, err := s.Create(args[0], func(r *aviation.RunwayGeometry, ec aviation.EditContext) {
			r.HE.Ident = args[1]
			r.LE.Ident = aviation.OppositeRunwayIdent(args[1])
			r.Width = 150
			r.SetCenter(aviation.ParseCoord(args[2]), ec)
			r.SetLength(aviation.ParseDistance(args[3]))
			r.SetTrueHeading(aviation.ParseHeading(args[4]), ec)
			r.NormalizeEnds()
		})
		if err != nil {
			return false, err
		}
		show(w, r)
		return true, nil

	case "delete":
		if err := checkArgs(args, 1); err != nil {
			return false, err
		}
		addr, err := parseAddress(args[0])
		if err != nil {
			return false, err
		}
		return true, s.Delete(addr)

	case "elevation":
		if err := checkArgs(args, 1); err != nil {
			return false, err
		}
		addr, err := parseAddress(args[0])
		if err != nil {
			return false, err
		}
		return requestElevation(w, s, addr)

	default:
		return edit(w, s, cmd, args)
	}
}

// edit handles the commands that change a single field of a runway.
func edit(w io.Writer, s *session.Session, cmd string, args []string) (bool, error) {
	var fn session.EditFunc
	nargs := 2

	switch cmd {
	case "heading":
		fn = func(r *aviation.RunwayGeometry, ec aviation.EditContext) {
			r.SetTrueHeading(aviation.ParseHeading(args[1]), ec)
		}
	case "length":
		fn = func(r *aviation.RunwayGeometry, ec aviation.EditContext) {
			r.SetLength(aviation.ParseDistance(args[1]))
		}
	case "width":
		fn = func(r *aviation.RunwayGeometry, ec aviation.EditContext) {
			r.SetWidth(aviation.ParseDistance(args[1]))
		}
	case "center":
		fn = func(r *aviation.RunwayGeometry, ec aviation.EditContext) {
			r.SetCenter(aviation.ParseCoord(args[1]), ec)
		}
	case "coord", "disp", "elev", "swap":
		if cmd != "swap" {
			nargs = 3
		}
		if len(args) < 2 {
			return false, checkArgs(args, nargs)
		}
		end, err := parseEnd(args[1])
		if err != nil {
			return false, err
		}
		fn = func(r *aviation.RunwayGeometry, ec aviation.EditContext) {
			switch cmd {
			case "coord":
				r.SetEndCoord(end, aviation.ParseCoord(args[2]), ec)
			case "disp":
				r.SetDisplacement(end, aviation.ParseDistance(args[2]))
			case "elev":
				r.SetElevation(end, aviation.ParseElevation(args[2]))
			case "swap":
				r.DeriveOppositeEnd(end, r.Center)
			}
		}
	default:
		return false, fmt.Errorf("unknown command")
	}

	if err := checkArgs(args, nargs); err != nil {
		return false, err
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return false, err
	}

	before, _ := s.Get(addr)
	r, err := s.Edit(addr, fn)
	if err != nil {
		return false, err
	}
	show(w, r)
	return r != before, nil
}

func requestElevation(w io.Writer, s *session.Session, addr util.Address) (bool, error) {
	before, ok := s.Get(addr)
	if !ok {
		return false, session.ErrNoSuchRecord
	}

	state, err := s.RequestElevation(addr)
	if err != nil {
		return false, err
	}
	if state != elev.TaskPending {
		return false, fmt.Errorf("runway %d has no threshold coordinates", addr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		return false, err
	}

	r, _ := s.Get(addr)
	if r == before {
		return false, fmt.Errorf("no elevations available for runway %d", addr)
	}
	show(w, r)
	return true, nil
}

func list(w io.Writer, s *session.Session) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDR\tAIRPORT\tRUNWAY\tLENGTH\tWIDTH\tHEADING")
	for _, addr := range s.Store().Addresses() {
		r, ok := s.Get(addr)
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s/%s\t%d\t%d\t%05.1f\n", r.Addr, r.Airport, r.HE.Ident, r.LE.Ident,
			r.Length, r.Width, r.HE.Heading.Degrees())
	}
	tw.Flush()
}

func show(w io.Writer, r aviation.RunwayGeometry) {
	if *dump {
		godump.Fdump(w, r)
		return
	}

	fmt.Fprintf(w, "%d: %s runway %s/%s, %d x %d ft\n", r.Addr, r.Airport, r.HE.Ident, r.LE.Ident, r.Length, r.Width)
	for _, e := range []aviation.End{aviation.HighEnd, aviation.LowEnd} {
		end := r.End(e)
		fmt.Fprintf(w, "  %-4s %05.1f %s elev %d disp %d tda %d lda %d\n", end.Ident, end.Heading.Degrees(),
			end.Coord.DMSString(), end.Elevation, end.Disp, end.TDA, end.LDA)
	}
	if !r.Center.IsZero() {
		fmt.Fprintf(w, "  center %s\n", r.Center.DDString())
	}
}
