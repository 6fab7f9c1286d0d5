package kmz

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geozone/polykml/pkg/kmlparse"
	"github.com/geozone/polykml/pkg/types"
)

type entry struct {
	name string
	body string
}

func makeKMZ(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func polygonKML(names ...string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><kml xmlns="http://www.opengis.net/kml/2.2"><Document>`)
	for i, n := range names {
		fmt.Fprintf(&sb, `<Placemark><name>%s</name><Polygon><outerBoundaryIs><LinearRing>
<coordinates>%d,0,0 %d,1,0 %d,1,0</coordinates></LinearRing></outerBoundaryIs></Polygon></Placemark>`, n, i, i, i+1)
	}
	sb.WriteString(`</Document></kml>`)
	return sb.String()
}

func names(polys []types.Polygon) []string {
	var ns []string
	for _, p := range polys {
		ns = append(ns, p.Name)
	}
	return ns
}

func TestDocKMLFirst(t *testing.T) {
	data := makeKMZ(t,
		entry{"shapes.kml", polygonKML("s1", "s2")},
		entry{"images/icon.png", "\x89PNG"},
		entry{"doc.kml", polygonKML("d1")},
	)
	polys, err := New(WithLogger(testr.New(t))).ExtractBytes(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "s1", "s2"}, names(polys))
}

func TestDocKMLCaseInsensitive(t *testing.T) {
	data := makeKMZ(t,
		entry{"a.kml", polygonKML("a")},
		entry{"b.KML", polygonKML("b")},
		entry{"DOC.KML", polygonKML("doc")},
		entry{"sub/doc.kml", polygonKML("nested")},
	)
	polys, err := ExtractBytes(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc", "a", "b", "nested"}, names(polys))
}

func TestCorruptEntrySkipped(t *testing.T) {
	data := makeKMZ(t,
		entry{"doc.kml", `<kml><Document><Placemark></kml>`},
		entry{"good.kml", polygonKML("ok")},
		entry{"empty.kml", `<kml><Document/></kml>`},
	)
	polys, err := New(WithLogger(testr.New(t))).ExtractBytes(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, names(polys))
}

func TestAllEntriesFail(t *testing.T) {
	data := makeKMZ(t,
		entry{"doc.kml", `garbage`},
		entry{"points.kml", `<kml><Placemark><Point><coordinates>1,2</coordinates></Point></Placemark></kml>`},
	)
	polys, err := ExtractBytes(data)
	require.NoError(t, err)
	assert.NotNil(t, polys)
	assert.Empty(t, polys)
}

func TestNoKMLEntries(t *testing.T) {
	data := makeKMZ(t,
		entry{"readme.txt", "hello"},
		entry{"folder.kml/", ""},
	)
	_, err := ExtractBytes(data)
	require.Error(t, err)
	assert.True(t, types.IsFormatError(err))
	assert.ErrorIs(t, err, ErrNoKML)

	_, err = ExtractBytes(makeKMZ(t))
	assert.True(t, types.IsFormatError(err))
}

func TestNotAnArchive(t *testing.T) {
	_, err := ExtractBytes([]byte(polygonKML("plain")))
	require.Error(t, err)
	assert.True(t, types.IsFormatError(err))
}

func TestMaxEntrySize(t *testing.T) {
	data := makeKMZ(t,
		entry{"doc.kml", polygonKML("big", "bigger", "biggest")},
		entry{"small.kml", `<kml><Placemark><Polygon><coordinates>0,0 1,0 1,1</coordinates></Polygon></Placemark></kml>`},
	)
	polys, err := New(WithMaxEntrySize(200), WithLogger(testr.New(t))).ExtractBytes(data)
	require.NoError(t, err)
	assert.Equal(t, []string{types.DefaultName}, names(polys))
}

func TestParserOptions(t *testing.T) {
	data := makeKMZ(t, entry{"doc.kml", `<kml><Placemark><Polygon><coordinates>0,0 1,0 1,1</coordinates></Polygon></Placemark></kml>`})
	polys, err := New(WithParserOptions(kmlparse.WithDefaultName("zona"))).ExtractBytes(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"zona"}, names(polys))
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.kmz")
	require.NoError(t, os.WriteFile(path, makeKMZ(t, entry{"doc.kml", polygonKML("f1", "f2")}), 0o644))

	polys, err := New().ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2"}, names(polys))

	_, err = New().ExtractFile(filepath.Join(t.TempDir(), "missing.kmz"))
	require.Error(t, err)
	assert.False(t, types.IsFormatError(err))
}
