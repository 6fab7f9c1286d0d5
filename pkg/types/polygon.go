package types

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// DefaultName is given to imported polygons whose placemark has no usable name.
const DefaultName = "Unnamed polygon"

const MinVertices = 3

type Point struct {
	Lat float64
	Lon float64
}

func (p Point) IsFinite() bool {
	return !(math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0))
}

// MarshalJSON encodes a point as [lat, lng], the form used by the polygon API.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lat, p.Lon})
}

func (p *Point) UnmarshalJSON(b []byte) error {
	var v []float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if len(v) != 2 {
		return errors.Errorf("point: want [lat, lng], got %d values", len(v))
	}
	p.Lat, p.Lon = v[0], v[1]
	return nil
}

// Polygon is a geofence as held by the application. Coordinates are stored
// latitude first; the ring need not repeat its first vertex. An empty Colour
// leaves the choice of colour to the caller.
type Polygon struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Coordinates []Point `json:"coordinates"`
	Colour      string  `json:"color,omitempty"`
}

// Validate checks the structural invariants of p. Geographic correctness
// (winding, self intersection, coordinate ranges) is not checked.
func (p Polygon) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("polygon: name is required")
	}
	if len(p.Coordinates) < MinVertices {
		return errors.Errorf("polygon %q: %d vertices, need at least %d", p.Name, len(p.Coordinates), MinVertices)
	}
	for i, pt := range p.Coordinates {
		if !pt.IsFinite() {
			return errors.Errorf("polygon %q: vertex %d is not finite", p.Name, i)
		}
	}
	if p.Colour != "" && !isHexColour(p.Colour) {
		return errors.Errorf("polygon %q: bad colour %q", p.Name, p.Colour)
	}
	return nil
}

func isHexColour(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
