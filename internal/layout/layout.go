// Package layout defines the positioned-page representation that the
// segmentation engine consumes. A Document is a sequence of pages; each page
// holds an ordered list of text containers, which nest down to single-glyph
// leaves carrying font name and size. Coordinates are PDF-style: the origin
// is the bottom-left corner of the page, so larger y means higher up.
package layout

import (
	"math"
	"strings"
)

// NodeKind discriminates the node types in an element tree.
type NodeKind int

const (
	NodeContainer NodeKind = iota // groups child nodes (a line or text box)
	NodeGlyph                     // a text leaf with font name and size
	NodeLineBreak                 // an embedded line break between glyphs
)

func (k NodeKind) String() string {
	switch k {
	case NodeContainer:
		return "container"
	case NodeGlyph:
		return "glyph"
	case NodeLineBreak:
		return "linebreak"
	default:
		return "unknown"
	}
}

// Node is one element in a page's layout tree. The segmentation engine never
// mutates nodes; they are owned by whatever produced the Document.
type Node struct {
	Kind NodeKind

	X0, X1 float64
	Y0, Y1 float64

	// FontName and FontSize are set on glyph nodes only.
	FontName string
	FontSize float64

	// Text holds the glyph text for glyph nodes. Line-break nodes carry "\n".
	Text string

	Children []*Node
}

// Page is one page of a document with its ordered top-level elements.
type Page struct {
	Width    float64
	Height   float64
	Elements []*Node
}

// Document is the full parsed-page representation of one source document.
type Document struct {
	Pages []Page
}

// Width returns the element's horizontal extent.
func (n *Node) Width() float64 { return n.X1 - n.X0 }

// PlainText is the native text extraction of a node: glyph text and explicit
// line breaks, concatenated depth-first left to right.
func (n *Node) PlainText() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	switch n.Kind {
	case NodeGlyph:
		sb.WriteString(n.Text)
	case NodeLineBreak:
		sb.WriteString("\n")
	case NodeContainer:
		for _, c := range n.Children {
			c.writeText(sb)
		}
	}
}

// ValidGeometry reports whether the node's bounding box is usable. Elements
// failing this are skipped by the engine rather than failing the document.
func (n *Node) ValidGeometry() bool {
	for _, v := range [4]float64{n.X0, n.X1, n.Y0, n.Y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return n.X1 >= n.X0 && n.Y1 >= n.Y0
}
