package layout

import (
	"fmt"
	"io"
	"os"
	"sort"

	pdflib "github.com/ledongthuc/pdf"
)

// Baseline grouping tolerance in points. Glyphs whose Y differ by less than
// this are considered part of the same text line.
const lineTolerance = 2.0

// ParsePDF reads a PDF from r and builds the positioned-page representation.
// ledongthuc/pdf requires a ReadSeeker+size, so the stream is staged in a
// temp file first.
func ParsePDF(r io.Reader) (*Document, error) {
	tmp, err := os.CreateTemp("", "lexchunk-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	return ParsePDFFile(tmpPath)
}

// ParsePDFFile builds the positioned-page representation from a PDF on disk.
func ParsePDFFile(path string) (*Document, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	doc := &Document{}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		width, height, err := pageSize(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}

		content := page.Content()
		doc.Pages = append(doc.Pages, Page{
			Width:    width,
			Height:   height,
			Elements: buildLines(content.Text),
		})
	}
	return doc, nil
}

// pageSize resolves the MediaBox, walking up the page tree for inherited
// entries.
func pageSize(page pdflib.Page) (width, height float64, err error) {
	v := page.V
	for !v.IsNull() {
		if box := v.Key("MediaBox"); !box.IsNull() && box.Len() == 4 {
			width = box.Index(2).Float64() - box.Index(0).Float64()
			height = box.Index(3).Float64() - box.Index(1).Float64()
			if width <= 0 || height <= 0 {
				return 0, 0, fmt.Errorf("degenerate media box %gx%g", width, height)
			}
			return width, height, nil
		}
		v = v.Key("Parent")
	}
	return 0, 0, fmt.Errorf("missing media box")
}

// buildLines groups positioned glyph runs into baseline rows, top of the page
// first, and wraps each row in a container node ending in a line-break
// marker. This is a best-effort reconstruction: the source PDF's own text
// boxes are not recoverable from glyph positions alone.
func buildLines(texts []pdflib.Text) []*Node {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdflib.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y // top of page first
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []*Node
	var current []pdflib.Text
	flush := func() {
		if len(current) == 0 {
			return
		}
		lines = append(lines, lineNode(current))
		current = nil
	}

	for _, t := range sorted {
		if len(current) > 0 && current[0].Y-t.Y > lineTolerance {
			flush()
		}
		current = append(current, t)
	}
	flush()
	return lines
}

func lineNode(glyphs []pdflib.Text) *Node {
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })

	line := &Node{Kind: NodeContainer}
	for _, g := range glyphs {
		child := &Node{
			Kind:     NodeGlyph,
			X0:       g.X,
			X1:       g.X + g.W,
			Y0:       g.Y,
			Y1:       g.Y + g.FontSize,
			FontName: g.Font,
			FontSize: g.FontSize,
			Text:     g.S,
		}
		line.Children = append(line.Children, child)
		if len(line.Children) == 1 {
			line.X0, line.X1, line.Y0, line.Y1 = child.X0, child.X1, child.Y0, child.Y1
			continue
		}
		if child.X0 < line.X0 {
			line.X0 = child.X0
		}
		if child.X1 > line.X1 {
			line.X1 = child.X1
		}
		if child.Y0 < line.Y0 {
			line.Y0 = child.Y0
		}
		if child.Y1 > line.Y1 {
			line.Y1 = child.Y1
		}
	}
	line.Children = append(line.Children, &Node{
		Kind: NodeLineBreak,
		X0:   line.X1, X1: line.X1, Y0: line.Y0, Y1: line.Y1,
		Text: "\n",
	})
	return line
}
