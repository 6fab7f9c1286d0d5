package colour

import (
	"fmt"

	"github.com/mazznoer/colorgrad"
)

const (
	GRAD_RED = "red"
	GRAD_RGN = "rdylgn"
	GRAD_YOR = "ylorrd"
)

func gradient(name string) colorgrad.Gradient {
	switch name {
	case GRAD_RGN:
		return colorgrad.RdYlGn()
	case GRAD_YOR:
		return colorgrad.YlOrRd()
	default:
		return colorgrad.Reds()
	}
}

// Palette returns n "#rrggbb" colours evenly spaced along the named
// gradient (red, rdylgn or ylorrd; unknown names fall back to red).
func Palette(name string, n int) []string {
	if n <= 0 {
		return nil
	}
	grad := gradient(name)
	cols := make([]string, n)
	for i := range cols {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r, g, b, _ := grad.At(t).RGBA()
		cols[i] = fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	}
	return cols
}
