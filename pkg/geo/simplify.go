package geo

import (
	"github.com/deet/simpleline"
	"github.com/pkg/errors"

	"github.com/geozone/polykml/pkg/types"
)

// Simplify drops ring vertices closer than epsilon (degrees) to the outline
// of their neighbours, using Ramer-Douglas-Peucker. The ring is split at the
// vertex farthest from the first so neither half is closed. A result with
// fewer than three vertices leaves the ring unchanged.
func Simplify(pts []types.Point, epsilon float64) ([]types.Point, error) {
	ring := openRing(pts)
	if epsilon <= 0 || len(ring) <= types.MinVertices {
		return pts, nil
	}

	k, best := 0, -1.0
	for i, p := range ring {
		dx, dy := p.Lon-ring[0].Lon, p.Lat-ring[0].Lat
		if d := dx*dx + dy*dy; d > best {
			k, best = i, d
		}
	}
	if best == 0 {
		return pts, nil
	}

	head, err := rdp(ring[:k+1], epsilon)
	if err != nil {
		return nil, err
	}
	tail, err := rdp(append(append([]types.Point{}, ring[k:]...), ring[0]), epsilon)
	if err != nil {
		return nil, err
	}
	out := append(head, tail[1:len(tail)-1]...)
	if len(out) < types.MinVertices {
		return pts, nil
	}
	return out, nil
}

func rdp(path []types.Point, epsilon float64) ([]types.Point, error) {
	points := []simpleline.Point{}
	for _, p := range path {
		pt := simpleline.Point3d{X: p.Lon, Y: p.Lat}
		points = append(points, &pt)
	}
	res, err := simpleline.RDP(points, epsilon, simpleline.Euclidean, true)
	if err != nil {
		return nil, errors.Wrap(err, "simplify")
	}
	out := make([]types.Point, 0, len(res))
	for _, r := range res {
		v := r.Vector()
		out = append(out, types.Point{Lat: v[1], Lon: v[0]})
	}
	return out, nil
}
