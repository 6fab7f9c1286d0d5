// Package kmz extracts polygons from KMZ archives.
package kmz

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/geozone/polykml/pkg/kmlparse"
	"github.com/geozone/polykml/pkg/types"
)

// DefaultMaxEntrySize bounds the decompressed size of a single KML entry.
const DefaultMaxEntrySize int64 = 64 << 20

var ErrNoKML = errors.New("no KML files in archive")

type Extractor struct {
	log          logr.Logger
	maxEntrySize int64
	parseOpts    []kmlparse.Option
}

type Option func(*Extractor)

func WithLogger(l logr.Logger) Option {
	return func(x *Extractor) {
		x.log = l
	}
}

func WithMaxEntrySize(n int64) Option {
	return func(x *Extractor) {
		if n > 0 {
			x.maxEntrySize = n
		}
	}
}

// WithParserOptions passes options to the parser used for each entry.
func WithParserOptions(opts ...kmlparse.Option) Option {
	return func(x *Extractor) {
		x.parseOpts = append(x.parseOpts, opts...)
	}
}

func New(opts ...Option) *Extractor {
	x := &Extractor{log: logr.Discard(), maxEntrySize: DefaultMaxEntrySize}
	for _, o := range opts {
		o(x)
	}
	return x
}

// ExtractBytes extracts polygons from an in-memory archive with a default
// Extractor.
func ExtractBytes(data []byte) ([]types.Polygon, error) {
	return New().ExtractBytes(data)
}

func (x *Extractor) ExtractBytes(data []byte) ([]types.Polygon, error) {
	return x.Extract(bytes.NewReader(data), int64(len(data)))
}

func (x *Extractor) ExtractFile(path string) ([]types.Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return x.Extract(f, fi.Size())
}

// Extract parses every .kml entry of the archive, doc.kml first, and
// concatenates their polygons. An entry that fails is logged and skipped,
// so an archive whose entries all fail yields an empty result without
// error. Input that is not a zip archive, or has no .kml entry, gives a
// *types.FormatError.
func (x *Extractor) Extract(ra io.ReaderAt, size int64) ([]types.Polygon, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, &types.FormatError{Op: "kmz", Err: err}
	}
	files := candidates(zr)
	if len(files) == 0 {
		return nil, &types.FormatError{Op: "kmz", Err: ErrNoKML}
	}

	parser := kmlparse.New(append([]kmlparse.Option{kmlparse.WithLogger(x.log.WithName("kml"))}, x.parseOpts...)...)
	polys := types.Collect(len(files),
		func(i int) ([]types.Polygon, error) {
			dat, err := x.readEntry(files[i])
			if err != nil {
				return nil, err
			}
			ps, err := parser.Parse(dat)
			if err != nil {
				return nil, err
			}
			x.log.V(1).Info("processed entry", "entry", files[i].Name, "polygons", len(ps))
			return ps, nil
		},
		func(i int, err error) {
			x.log.Error(err, "skipping archive entry", "entry", files[i].Name)
		})
	if polys == nil {
		polys = []types.Polygon{}
	}
	return polys, nil
}

// candidates lists the .kml entries of zr with doc.kml first and the rest in
// archive order.
func candidates(zr *zip.Reader) []*zip.File {
	var files []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(f.Name), ".kml") {
			files = append(files, f)
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		return isDocKML(files[i]) && !isDocKML(files[j])
	})
	return files
}

func isDocKML(f *zip.File) bool {
	return strings.EqualFold(f.Name, "doc.kml")
}

func (x *Extractor) readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", f.Name)
	}
	defer rc.Close()
	dat, err := io.ReadAll(io.LimitReader(rc, x.maxEntrySize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", f.Name)
	}
	if int64(len(dat)) > x.maxEntrySize {
		return nil, errors.Errorf("%s: larger than %d bytes", f.Name, x.maxEntrySize)
	}
	return dat, nil
}
