package kmlgen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// GenKmlName derives an output file name from an input file name.
func GenKmlName(inp string, askmz bool, idx int) string {
	outfn := filepath.Base(inp)
	ext := filepath.Ext(outfn)
	if len(ext) < len(outfn) {
		outfn = outfn[0 : len(outfn)-len(ext)]
	}
	if askmz {
		ext = ".kmz"
	} else {
		ext = ".kml"
	}
	if idx > 0 {
		ext = fmt.Sprintf(".%d%s", idx, ext)
	}
	return outfn + ext
}

// OutputIsKMZ decides the output format for outfn. A .kmz extension selects
// KMZ; a .kml extension conflicts with askmz.
func OutputIsKMZ(outfn string, askmz bool) (bool, error) {
	switch strings.ToLower(filepath.Ext(outfn)) {
	case ".kmz":
		return true, nil
	case ".kml":
		if askmz {
			return false, errors.Errorf("%s: KMZ requested for a .kml file", outfn)
		}
		return false, nil
	}
	return askmz, nil
}
