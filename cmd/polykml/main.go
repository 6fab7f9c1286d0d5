package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/yookoala/realpath"

	"github.com/geozone/polykml/pkg/colour"
	"github.com/geozone/polykml/pkg/geo"
	"github.com/geozone/polykml/pkg/kmlgen"
	"github.com/geozone/polykml/pkg/kmlparse"
	"github.com/geozone/polykml/pkg/kmz"
	"github.com/geozone/polykml/pkg/options"
	"github.com/geozone/polykml/pkg/types"
)

var GitCommit = "local"
var GitTag = "0.0.0"

// report receives progress lines; stdout is kept for JSON with -json.
var report io.Writer = os.Stdout

func GetVersion() string {
	return fmt.Sprintf("%s %s commit:%s", filepath.Base(os.Args[0]), GitTag, GitCommit)
}

func main() {
	_ = godotenv.Load()
	files := options.ParseCLI(GetVersion)
	if len(files) == 0 {
		options.Usage()
		os.Exit(1)
	}

	if options.Config.Json {
		report = os.Stderr
	}
	stdr.SetVerbosity(options.Config.LogLevel)
	logger := stdr.NewWithOptions(log.New(os.Stderr, "", log.LstdFlags), stdr.Options{LogCaller: stdr.Error}).WithName("polykml")

	var polys []types.Polygon
	for _, fn := range files {
		ps, err := readFile(fn, logger)
		if err != nil {
			logger.Error(err, "failed to import", "file", fn)
			continue
		}
		fmt.Fprintf(report, "%-8.8s : %s (%d polygons)\n", "Input", fn, len(ps))
		polys = append(polys, ps...)
	}
	if len(polys) == 0 {
		fmt.Fprintln(os.Stderr, "*** no polygons imported")
		os.Exit(1)
	}

	if options.Config.Simplify > 0 {
		for i := range polys {
			pts, err := geo.Simplify(polys[i].Coordinates, options.Config.Simplify)
			if err != nil {
				logger.Error(err, "simplify failed", "polygon", polys[i].Name)
				continue
			}
			logger.V(1).Info("simplified", "polygon", polys[i].Name, "from", len(polys[i].Coordinates), "to", len(pts))
			polys[i].Coordinates = pts
		}
	}

	if options.Config.Palette != "" {
		assignColours(polys, options.Config.Palette)
	}

	if options.Config.Json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(polys); err != nil {
			log.Fatalf("polykml: %+v\n", err)
		}
	} else {
		summarise(polys)
	}

	if options.Config.Check != "" {
		pt, err := options.ParsePoint(options.Config.Check)
		if err != nil {
			log.Fatalf("polykml: %+v\n", err)
		}
		for _, p := range geo.ContainingPolygons(polys, pt) {
			fmt.Fprintf(report, "%-8.8s : %s\n", "Contains", p.Name)
		}
	}

	if options.Config.Summary {
		return
	}
	outfn := options.Config.Output
	if outfn == "" {
		outfn = kmlgen.GenKmlName(files[0], options.Config.Kmz, 0)
		if outfn == filepath.Base(files[0]) {
			outfn = kmlgen.GenKmlName(files[0], options.Config.Kmz, 1)
		}
	}
	if options.Config.Outdir != "" {
		outfn = filepath.Join(options.Config.Outdir, outfn)
	}
	if err := writeFile(outfn, polys); err != nil {
		log.Fatalf("polykml: %+v\n", err)
	}
	show_output(outfn)
}

func readFile(fn string, logger logr.Logger) ([]types.Polygon, error) {
	dat, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	popts := []kmlparse.Option{
		kmlparse.WithLogger(logger.WithName("kml")),
		kmlparse.WithDefaultName(options.Config.DefaultName),
	}
	switch types.DetectFileType(dat) {
	case types.IS_KMZ:
		x := kmz.New(kmz.WithLogger(logger.WithName("kmz")),
			kmz.WithMaxEntrySize(options.Config.MaxEntrySize),
			kmz.WithParserOptions(popts...))
		return x.ExtractBytes(dat)
	case types.IS_KML:
		return kmlparse.New(popts...).Parse(dat)
	default:
		return nil, &types.FormatError{Op: fn, Err: errors.New("neither KML nor KMZ")}
	}
}

// assignColours gives each uncoloured polygon a colour from the named
// gradient; colours read from the input are kept.
func assignColours(polys []types.Polygon, grad string) {
	var idx []int
	for i, p := range polys {
		if p.Colour == "" {
			idx = append(idx, i)
		}
	}
	cols := colour.Palette(grad, len(idx))
	for j, i := range idx {
		polys[i].Colour = cols[j]
	}
}

func summarise(polys []types.Polygon) {
	for i, p := range polys {
		col := p.Colour
		if col == "" {
			col = "(unset)"
		}
		fmt.Printf("%-8.8s : %d %s\n", "Polygon", i+1, p.Name)
		fmt.Printf("%-8.8s : %d\n", "Vertices", len(p.Coordinates))
		fmt.Printf("%-8.8s : %s\n", "Colour", col)
		fmt.Printf("%-8.8s : %s\n", "Centre", geo.PositionFormat(geo.Centroid(p.Coordinates), options.Config.Dms))
		if err := p.Validate(); err != nil {
			fmt.Printf("%-8.8s : %v\n", "Invalid", err)
		}
	}
}

func writeFile(outfn string, polys []types.Polygon) error {
	askmz, err := kmlgen.OutputIsKMZ(outfn, options.Config.Kmz)
	if err != nil {
		return err
	}
	w, err := os.Create(outfn)
	if err != nil {
		return err
	}
	if askmz {
		err = kmlgen.WriteKMZ(w, polys)
	} else {
		err = kmlgen.WriteKML(w, polys)
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return err
}

func show_output(outfn string) {
	if outfn != "" {
		rp, err := realpath.Realpath(outfn)
		if err != nil || rp == "" {
			fmt.Fprintf(report, "%-8.8s : <%s> <%s>\n", "RealPath", rp, err)
			rp = outfn
		}
		if fi, err := os.Stat(outfn); err == nil {
			fmt.Fprintf(report, "%-8.8s : %s (%s)\n", "Output", rp, humanize.Bytes(uint64(fi.Size())))
		} else {
			fmt.Fprintf(report, "%-8.8s : %s\n", "Output", rp)
		}
	}
}
