// Package geo holds the small amount of planar and spherical geometry the
// command line tool reports on imported polygons.
package geo

import (
	"math"

	"github.com/geozone/polykml/pkg/types"
)

const EarthRadiusKm = 6371.0

// openRing drops a closing vertex that repeats the first one.
func openRing(pts []types.Point) []types.Point {
	if n := len(pts); n > 1 && pts[0] == pts[n-1] {
		return pts[:n-1]
	}
	return pts
}

// Centroid is the vertex mean of the ring. Rings with fewer than three
// vertices give the zero point.
func Centroid(pts []types.Point) types.Point {
	if len(pts) < types.MinVertices {
		return types.Point{}
	}
	ring := openRing(pts)
	var c types.Point
	for _, p := range ring {
		c.Lat += p.Lat
		c.Lon += p.Lon
	}
	n := float64(len(ring))
	return types.Point{Lat: c.Lat / n, Lon: c.Lon / n}
}

// Contains reports whether p lies inside the ring, by ray casting along
// the latitude axis. The ring is closed implicitly.
func Contains(pts []types.Point, p types.Point) bool {
	ring := openRing(pts)
	if len(ring) < types.MinVertices {
		return false
	}
	inside := false
	j := len(ring) - 1
	for i := range ring {
		a, b := ring[i], ring[j]
		if (a.Lon > p.Lon) != (b.Lon > p.Lon) &&
			p.Lat < (b.Lat-a.Lat)*(p.Lon-a.Lon)/(b.Lon-a.Lon)+a.Lat {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Distance is the haversine great circle distance in kilometres.
func Distance(a, b types.Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := lat2 - lat1
	dlon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ContainingPolygons returns the polygons whose ring contains p, in input order.
func ContainingPolygons(polys []types.Polygon, p types.Point) []types.Polygon {
	var res []types.Polygon
	for _, poly := range polys {
		if Contains(poly.Coordinates, p) {
			res = append(res, poly)
		}
	}
	return res
}
