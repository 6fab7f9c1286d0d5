package kmlgen

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	kml "github.com/twpayne/go-kml"
	kmz "github.com/twpayne/go-kmz"

	"github.com/geozone/polykml/pkg/colour"
	"github.com/geozone/polykml/pkg/types"
)

var ErrNothingToWrite = errors.New("kmlgen: no polygons to write")

// encoding/xml writes quotes as numeric references; KML readers expect the
// named entities. A literal "&#34;" in the input is written as "&amp;#34;",
// so only encoder output is rewritten here.
var entityFixer = strings.NewReplacer("&#34;", "&quot;", "&#39;", "&apos;")

func simpleElement(name, value string) *kml.SimpleElement {
	se := &kml.SimpleElement{StartElement: xml.StartElement{Name: xml.Name{Local: name}}}
	se.SetString(value)
	return se
}

func coordinates(pts []types.Point) string {
	var sb strings.Builder
	for i, pt := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(pt.Lon, 'f', -1, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(pt.Lat, 'f', -1, 64))
		sb.WriteString(",0")
	}
	return sb.String()
}

func add_polygon(p types.Polygon) kml.Element {
	col := p.Colour
	if col == "" {
		col = colour.DefaultHex
	}
	pm := kml.Placemark(kml.Name(p.Name))
	if p.Description != "" {
		pm.Add(kml.Description(p.Description))
	}
	pm.Add(
		kml.Style(
			kml.PolyStyle(
				simpleElement("color", colour.HexToPacked(col)),
				kml.Fill(true),
				kml.Outline(true),
			),
		),
		kml.Polygon(
			kml.OuterBoundaryIs(
				kml.LinearRing(
					simpleElement("coordinates", coordinates(p.Coordinates)),
				),
			),
		),
	)
	return pm
}

// Document builds the KML Document holding one placemark per polygon.
func Document(polys []types.Polygon) (*kml.CompoundElement, error) {
	if len(polys) == 0 {
		return nil, ErrNothingToWrite
	}
	d := kml.Document()
	for _, p := range polys {
		d.Add(add_polygon(p))
	}
	return d, nil
}

// WriteKML writes a complete KML 2.2 document for polys. Output depends only
// on polys.
func WriteKML(w io.Writer, polys []types.Polygon) error {
	d, err := Document(polys)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := kml.KML(d).WriteIndent(&buf, "", "  "); err != nil {
		return errors.Wrap(err, "kmlgen: encode")
	}
	buf.WriteByte('\n')
	_, err = entityFixer.WriteString(w, buf.String())
	return err
}

// WriteKMZ writes polys as a KMZ archive holding a single doc.kml.
func WriteKMZ(w io.Writer, polys []types.Polygon) error {
	d, err := Document(polys)
	if err != nil {
		return err
	}
	return errors.Wrap(kmz.NewKMZ(d).WriteIndent(w, "", "  "), "kmlgen: kmz")
}

func PolygonsToKML(polys []types.Polygon) (string, error) {
	var sb strings.Builder
	if err := WriteKML(&sb, polys); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func PolygonToKML(p types.Polygon) (string, error) {
	return PolygonsToKML([]types.Polygon{p})
}
