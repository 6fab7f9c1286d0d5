package options

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/geozone/polykml/pkg/kmz"
	"github.com/geozone/polykml/pkg/types"
)

var Config = struct {
	Dms          bool
	Json         bool
	Kmz          bool
	Summary      bool
	Palette      string
	Check        string
	Output       string
	Outdir       string
	DefaultName  string
	MaxEntrySize int64
	Simplify     float64
	LogLevel     int
}{
	DefaultName:  types.DefaultName,
	MaxEntrySize: kmz.DefaultMaxEntrySize,
}

func Usage() {
	flag.Usage()
}

// ParseCLI reads defaults from $POLYKML_OPTS, then the command line, and
// returns the input file names.
func ParseCLI(gv func() string) []string {
	app := filepath.Base(os.Args[0])

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s [options] file...\n", app)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintln(os.Stderr, gv())
	}

	parts := strings.Fields(os.Getenv("POLYKML_OPTS"))
	envflags := flag.NewFlagSet("$POLYKML_OPTS", flag.ExitOnError)
	askmz := envflags.Bool("kmz", false, "kmz")
	dms := envflags.Bool("dms", false, "dms")
	palette := envflags.String("palette", "", "palette")
	dname := envflags.String("default-name", Config.DefaultName, "default-name")
	envflags.Parse(parts)
	Config.Kmz = *askmz
	Config.Dms = *dms
	Config.Palette = *palette
	Config.DefaultName = *dname

	if v, err := strconv.Atoi(os.Getenv("POLYKML_LOG_LEVEL")); err == nil {
		Config.LogLevel = v
	}

	flag.BoolVar(&Config.Kmz, "kmz", Config.Kmz, "Generate KMZ (vice default KML)")
	flag.BoolVar(&Config.Dms, "dms", Config.Dms, "Show positions as DD:MM:SS.s (vice decimal degrees)")
	flag.BoolVar(&Config.Json, "json", false, "Dump imported polygons as JSON to stdout")
	flag.BoolVar(&Config.Summary, "summary", false, "Summarise polygons only, no output file")
	flag.StringVar(&Config.Palette, "palette", Config.Palette, "Colour uncoloured polygons from a gradient [red,rdylgn,ylorrd]")
	flag.StringVar(&Config.Check, "check", "", "List polygons containing lat,lon")
	flag.StringVar(&Config.Output, "o", "", "Output file name (default derived from first input)")
	flag.StringVar(&Config.Outdir, "outdir", "", "Output directory for generated KML")
	flag.StringVar(&Config.DefaultName, "default-name", Config.DefaultName, "Name for placemarks without one")
	flag.Float64Var(&Config.Simplify, "simplify", 0, "Simplify rings, dropping vertices within this many degrees of the outline")
	flag.Int64Var(&Config.MaxEntrySize, "max-entry", Config.MaxEntrySize, "[KMZ] largest KML entry to decompress (bytes)")
	flag.IntVar(&Config.LogLevel, "v", Config.LogLevel, "Log verbosity")

	flag.Parse()

	if Config.MaxEntrySize <= 0 {
		Config.MaxEntrySize = kmz.DefaultMaxEntrySize
	}

	return flag.Args()
}

// ParsePoint reads "lat,lon".
func ParsePoint(s string) (types.Point, error) {
	var p types.Point
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return p, errors.Errorf("want lat,lon: %q", s)
	}
	var err error
	if p.Lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return p, errors.Wrapf(err, "bad latitude %q", s)
	}
	if p.Lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return p, errors.Wrapf(err, "bad longitude %q", s)
	}
	return p, nil
}
