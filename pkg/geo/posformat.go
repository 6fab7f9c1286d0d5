package geo

import (
	"fmt"
	"math"
	"strings"

	"github.com/geozone/polykml/pkg/types"
)

func LatFormat(lat float64, dms bool) string {
	if !dms {
		return fmt.Sprintf("%.6f", lat)
	}
	return dms_format(lat, "%02d:%02d:%04.1f%c", "NS")
}

func LonFormat(lon float64, dms bool) string {
	if !dms {
		return fmt.Sprintf("%.6f", lon)
	}
	return dms_format(lon, "%03d:%02d:%04.1f%c", "EW")
}

// PositionFormat renders p as "lat lon", in decimal degrees or DD:MM:SS.s.
func PositionFormat(p types.Point, dms bool) string {
	var sb strings.Builder
	sb.WriteString(LatFormat(p.Lat, dms))
	sb.WriteByte(' ')
	sb.WriteString(LonFormat(p.Lon, dms))
	return sb.String()
}

func dms_format(coord float64, ofmt string, ind string) string {
	ds := math.Abs(coord)
	d := int(ds)
	rem := (ds - float64(d)) * 3600.0
	m := int(rem / 60)
	s := rem - float64(m*60)
	if int(s*10) == 600 {
		m += 1
		s = 0
	}
	if m == 60 {
		m = 0
		d += 1
	}
	q := ind[0]
	if coord < 0.0 {
		q = ind[1]
	}
	return fmt.Sprintf(ofmt, d, m, s, q)
}
