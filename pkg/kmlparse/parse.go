// Package kmlparse reads polygon placemarks out of KML documents.
package kmlparse

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/geozone/polykml/pkg/types"
)

type Parser struct {
	log         logr.Logger
	defaultName string
}

type Option func(*Parser)

func WithLogger(l logr.Logger) Option {
	return func(p *Parser) {
		p.log = l
	}
}

// WithDefaultName sets the name given to placemarks without one.
func WithDefaultName(name string) Option {
	return func(p *Parser) {
		if strings.TrimSpace(name) != "" {
			p.defaultName = name
		}
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{log: logr.Discard(), defaultName: types.DefaultName}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse extracts polygons with a default Parser.
func Parse(data []byte) ([]types.Polygon, error) {
	return New().Parse(data)
}

func (p *Parser) Parse(data []byte) ([]types.Polygon, error) {
	return p.ParseReader(bytes.NewReader(data))
}

// ParseReader returns one polygon per qualifying placemark, in document
// order. Malformed XML gives a *types.FormatError; a document without any
// qualifying placemark gives types.ErrEmptyResult.
func (p *Parser) ParseReader(r io.Reader) ([]types.Polygon, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	pms := doc.FindAll("Placemark")
	polys := types.Collect(len(pms),
		func(i int) ([]types.Polygon, error) {
			return p.placemark(i, pms[i], doc)
		},
		func(i int, err error) {
			p.log.Error(err, "skipping placemark", "index", i)
		})
	if len(polys) == 0 {
		return nil, errors.Wrapf(types.ErrEmptyResult, "%d placemarks examined", len(pms))
	}
	p.log.V(1).Info("parsed kml", "placemarks", len(pms), "polygons", len(polys))
	return polys, nil
}

func (p *Parser) placemark(idx int, pm, doc *Node) ([]types.Polygon, error) {
	poly := pm.Child("Polygon")
	if poly == nil {
		p.log.V(2).Info("placemark has no polygon", "index", idx)
		return nil, nil
	}
	ce := ringCoordinates(poly)
	if ce == nil {
		p.log.V(2).Info("polygon has no coordinates", "index", idx)
		return nil, nil
	}
	pts := ParseCoordinates(ce.Content())
	if len(pts) < types.MinVertices {
		p.log.V(1).Info("too few valid vertices", "index", idx, "vertices", len(pts))
		return nil, nil
	}

	pg := types.Polygon{
		Name:        pm.ChildText("name"),
		Description: pm.ChildText("description"),
		Coordinates: pts,
	}
	if pg.Name == "" {
		pg.Name = p.defaultName
	}
	if c, ok := ResolveColour(pm, doc); ok {
		pg.Colour = c
	}
	return []types.Polygon{pg}, nil
}

// ringCoordinates finds the coordinates of a polygon's outer boundary,
// falling back to any coordinates under the polygon.
func ringCoordinates(poly *Node) *Node {
	for _, tag := range []string{"outerBoundaryIs", "outerBoundary"} {
		if ce := poly.Child(tag).Child("LinearRing").Child("coordinates"); ce != nil {
			return ce
		}
	}
	return poly.Find("coordinates")
}

// ParseCoordinates reads a KML "lon,lat[,alt] ..." list into latitude first
// points. Tuples with fewer than two values, or whose longitude or latitude
// is unparsable or not finite, are dropped.
func ParseCoordinates(text string) []types.Point {
	var pts []types.Point
	for _, tok := range strings.Fields(text) {
		parts := strings.Split(tok, ",")
		if len(parts) < 2 {
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
			continue
		}
		pts = append(pts, types.Point{Lat: lat, Lon: lon})
	}
	return pts
}
