package kmlparse

import (
	"strings"

	"github.com/geozone/polykml/pkg/colour"
)

// A styleStrategy tries one way of finding a placemark's fill colour.
// doc is the whole decoded document, used to follow style references.
type styleStrategy func(pm, doc *Node) (string, bool)

// styleCascade is tried in order; the first strategy yielding a colour wins.
var styleCascade = []styleStrategy{
	inlineStyle,
	referencedStyle,
	mappedStyle,
	documentStyle,
}

// ResolveColour returns the "#rrggbb" fill colour of placemark pm, or false
// when no style in doc supplies one.
func ResolveColour(pm, doc *Node) (string, bool) {
	for _, s := range styleCascade {
		if c, ok := s(pm, doc); ok {
			return c, true
		}
	}
	return "", false
}

func inlineStyle(pm, _ *Node) (string, bool) {
	return polyColour(pm.Child("Style"))
}

func referencedStyle(pm, doc *Node) (string, bool) {
	id := styleRef(pm)
	if id == "" {
		return "", false
	}
	return styleByID(doc, id)
}

func mappedStyle(pm, doc *Node) (string, bool) {
	id := styleRef(pm)
	if id == "" {
		return "", false
	}
	for _, sm := range doc.FindAll("StyleMap") {
		if sm.Attr("id") != id {
			continue
		}
		pair := selectPair(sm)
		if pair == nil {
			continue
		}
		if c, ok := polyColour(pair.Child("Style")); ok {
			return c, true
		}
		if ref := styleRef(pair); ref != "" {
			if c, ok := styleByID(doc, ref); ok {
				return c, true
			}
		}
	}
	return "", false
}

// documentStyle applies the first coloured style anywhere under the top
// level Document, whether or not anything refers to it.
func documentStyle(_, doc *Node) (string, bool) {
	for _, s := range doc.Find("Document").FindAll("Style") {
		if c, ok := polyColour(s); ok {
			return c, true
		}
	}
	return "", false
}

func styleByID(doc *Node, id string) (string, bool) {
	for _, s := range doc.FindAll("Style") {
		if s.Attr("id") != id {
			continue
		}
		if c, ok := polyColour(s); ok {
			return c, true
		}
	}
	return "", false
}

// selectPair picks the "normal" pair of a StyleMap, else "highlight", else
// the first pair.
func selectPair(sm *Node) *Node {
	var first, highlight *Node
	for _, p := range sm.Children {
		if p.Name != "Pair" {
			continue
		}
		if first == nil {
			first = p
		}
		switch pairKey(p) {
		case "normal":
			return p
		case "highlight":
			if highlight == nil {
				highlight = p
			}
		}
	}
	if highlight != nil {
		return highlight
	}
	return first
}

func pairKey(p *Node) string {
	if k := p.ChildText("key"); k != "" {
		return k
	}
	return strings.TrimSpace(p.Attr("key"))
}

// styleRef returns the style id named by n's styleUrl, without the
// document part of the URL.
func styleRef(n *Node) string {
	ref := n.ChildText("styleUrl")
	if i := strings.LastIndexByte(ref, '#'); i >= 0 {
		ref = ref[i+1:]
	}
	return ref
}

func polyColour(style *Node) (string, bool) {
	text := style.Child("PolyStyle").ChildText("color")
	if text == "" {
		return "", false
	}
	return colour.PackedToHex(text), true
}
