package kmlparse

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/geozone/polykml/pkg/types"
)

// Node is an element of a decoded XML document. Names are local names;
// namespaces are dropped since KML files in the wild mix prefixed and
// unprefixed forms freely. The document itself is a Node with an empty Name.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
	Text     string
}

func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[name]
}

// Child returns the first direct child called name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildText returns the trimmed content of the first direct child called name.
func (n *Node) ChildText(name string) string {
	return strings.TrimSpace(n.Child(name).Content())
}

// Find returns the first descendant called name, in document order.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// FindAll returns every descendant called name, in document order.
func (n *Node) FindAll(name string) []*Node {
	var found []*Node
	n.walk(func(c *Node) {
		if c.Name == name {
			found = append(found, c)
		}
	})
	return found
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		fn(c)
		c.walk(fn)
	}
}

// Content is the concatenated character data of n and its descendants.
func (n *Node) Content() string {
	if n == nil {
		return ""
	}
	if len(n.Children) == 0 {
		return n.Text
	}
	var sb strings.Builder
	n.content(&sb)
	return sb.String()
}

func (n *Node) content(sb *strings.Builder) {
	sb.WriteString(n.Text)
	for _, c := range n.Children {
		c.content(sb)
	}
}

// Decode reads a complete XML document. Any syntax error is returned as a
// *types.FormatError.
func Decode(r io.Reader) (*Node, error) {
	// A byte order mark selects UTF-8 or UTF-16; without one the bytes pass
	// through and any encoding declaration is honoured by charsetReader.
	dec := xml.NewDecoder(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	dec.CharsetReader = charsetReader

	doc := &Node{}
	stack := []*Node{doc}
	seenRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &types.FormatError{Op: "kml", Err: err}
		}
		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			if seenRoot && len(stack) == 1 {
				return nil, &types.FormatError{Op: "kml", Err: errors.New("content after root element")}
			}
			n := &Node{Name: t.Name.Local}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				if n.Attrs == nil {
					n.Attrs = make(map[string]string, len(t.Attr))
				}
				n.Attrs[a.Name.Local] = a.Value
			}
			top.Children = append(top.Children, n)
			stack = append(stack, n)
			seenRoot = true
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 1 {
				if len(bytes.TrimSpace(t)) != 0 {
					return nil, &types.FormatError{Op: "kml", Err: errors.New("text outside root element")}
				}
				continue
			}
			top.Text += string(t)
		}
	}
	if !seenRoot {
		return nil, &types.FormatError{Op: "kml", Err: errors.New("no root element")}
	}
	if len(stack) != 1 {
		return nil, &types.FormatError{Op: "kml", Err: errors.New("unexpected end of document")}
	}
	return doc, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	// UTF-16 input has already been converted by the BOM override.
	if strings.HasPrefix(strings.ToLower(label), "utf-16") {
		return input, nil
	}
	r, err := charset.NewReaderLabel(label, input)
	if err != nil {
		return nil, errors.Wrapf(err, "charset %q", label)
	}
	return r, nil
}
