package kmlparse

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/geozone/polykml/pkg/types"
)

func TestDecodeTree(t *testing.T) {
	doc, err := Decode(strings.NewReader(`<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2" xmlns:gx="http://www.google.com/kml/ext/2.2">
  <Document id="d1">
    <Folder><Placemark><name> A </name></Placemark></Folder>
    <Placemark><name><![CDATA[B & C]]></name></Placemark>
    <gx:Tour/>
  </Document>
</kml>`))
	require.NoError(t, err)

	kml := doc.Child("kml")
	require.NotNil(t, kml)
	assert.Empty(t, kml.Attrs)
	assert.Equal(t, "d1", kml.Child("Document").Attr("id"))

	pms := doc.FindAll("Placemark")
	require.Len(t, pms, 2)
	assert.Equal(t, "A", pms[0].ChildText("name"))
	assert.Equal(t, "B & C", pms[1].ChildText("name"))
	assert.NotNil(t, doc.Find("Tour"))
	assert.Nil(t, doc.Find("Polygon"))
}

func TestNilNode(t *testing.T) {
	var n *Node
	assert.Nil(t, n.Child("x"))
	assert.Nil(t, n.Find("x"))
	assert.Empty(t, n.FindAll("x"))
	assert.Equal(t, "", n.Content())
	assert.Equal(t, "", n.Attr("id"))
	assert.Equal(t, "", n.ChildText("x"))
}

func TestContentSkipsComments(t *testing.T) {
	doc, err := Decode(strings.NewReader(`<coordinates>1,2 <!-- gap --> 3,4</coordinates>`))
	require.NoError(t, err)
	assert.Equal(t, "1,2  3,4", doc.Child("coordinates").Content())
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{
		`<kml><Document></kml>`,
		`<kml><Document>`,
		`not xml at all`,
		``,
		`<kml attr="unterminated></kml>`,
		`<kml><name>a</name></kml><kml><name>b</name></kml>`,
		`<kml><name>a</name></kml>garbage here`,
		`junk<kml><name>a</name></kml>`,
	} {
		_, err := Decode(strings.NewReader(in))
		require.Error(t, err, in)
		assert.True(t, types.IsFormatError(err), in)
	}
}

func TestDecodeMiscOutsideRoot(t *testing.T) {
	in := "<?xml version=\"1.0\"?>\n<!DOCTYPE kml>\n<!-- head -->\n<kml><name>a</name></kml>\n<!-- tail -->\n<?pi x?>\n"
	doc, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	assert.Equal(t, "a", doc.Child("kml").ChildText("name"))
}

func TestDecodeCharsets(t *testing.T) {
	latin, err := charmap.ISO8859_1.NewEncoder().String(`<?xml version="1.0" encoding="ISO-8859-1"?><kml><name>Bogotá</name></kml>`)
	require.NoError(t, err)
	doc, err := Decode(strings.NewReader(latin))
	require.NoError(t, err)
	assert.Equal(t, "Bogotá", doc.Child("kml").ChildText("name"))

	withBOM := append([]byte{0xef, 0xbb, 0xbf}, []byte(`<?xml version="1.0"?><kml><name>bom</name></kml>`)...)
	doc, err = Decode(bytes.NewReader(withBOM))
	require.NoError(t, err)
	assert.Equal(t, "bom", doc.Child("kml").ChildText("name"))

	u16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(`<?xml version="1.0" encoding="UTF-16"?><kml><name>wide</name></kml>`)
	require.NoError(t, err)
	doc, err = Decode(strings.NewReader(u16))
	require.NoError(t, err)
	assert.Equal(t, "wide", doc.Child("kml").ChildText("name"))
}
