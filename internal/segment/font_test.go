package segment

import (
	"testing"

	"lexchunk/internal/layout"
)

func glyph(text, font string, size float64) *layout.Node {
	return &layout.Node{Kind: layout.NodeGlyph, Text: text, FontName: font, FontSize: size}
}

func container(children ...*layout.Node) *layout.Node {
	return &layout.Node{Kind: layout.NodeContainer, Children: children}
}

func TestAggregateFont_SizesAndText(t *testing.T) {
	el := container(
		glyph("Article", serifBold, 12),
		glyph(" 1", serifBold, 9.5),
	)
	p := aggregateFont(el, newFontSet())

	if p.minSize != 9.5 || p.maxSize != 12 {
		t.Errorf("sizes: got min %g max %g", p.minSize, p.maxSize)
	}
	if got := p.text.String(); got != "Article 1" {
		t.Errorf("text: got %q", got)
	}
}

func TestAggregateFont_BoldVeto(t *testing.T) {
	// A readable non-bold glyph vetoes boldness.
	p := aggregateFont(container(
		glyph("Article", serifBold, 12),
		glyph("1", serif, 10),
	), newFontSet())
	if p.bold {
		t.Error("expected bold vetoed by readable regular glyph")
	}

	// A tiny non-bold glyph (a footnote reference) does not.
	p = aggregateFont(container(
		glyph("Article", serifBold, 12),
		glyph("1", serif, 6),
	), newFontSet())
	if !p.bold {
		t.Error("expected small print to leave boldness intact")
	}

	// Neither does whitespace, whatever its font.
	p = aggregateFont(container(
		glyph("Article", serifBold, 12),
		glyph("   ", serif, 12),
	), newFontSet())
	if !p.bold {
		t.Error("expected whitespace to leave boldness intact")
	}
}

func TestAggregateFont_ItalicHasNoSizeFloor(t *testing.T) {
	p := aggregateFont(container(
		glyph("inserted", "Serif-Italic", 10),
		glyph("1", serif, 5),
	), newFontSet())
	if p.italic {
		t.Error("expected italic vetoed even by a tiny regular glyph")
	}

	p = aggregateFont(container(
		glyph("inserted", "serif-ITALIC", 10),
	), newFontSet())
	if !p.italic {
		t.Error("italic font match must be case-insensitive")
	}
}

func TestAggregateFont_LineBreakBecomesSpace(t *testing.T) {
	el := container(
		glyph("first", serif, 10),
		&layout.Node{Kind: layout.NodeLineBreak, Text: "\n"},
		glyph("second", serif, 10),
	)
	p := aggregateFont(el, newFontSet())
	if got := p.text.String(); got != "first second" {
		t.Errorf("expected line break as space, got %q", got)
	}
}

func TestAggregateFont_NestedContainers(t *testing.T) {
	el := container(
		container(glyph("a", serif, 8)),
		container(glyph("b", serifBold, 14)),
	)
	p := aggregateFont(el, newFontSet())
	if p.minSize != 8 || p.maxSize != 14 {
		t.Errorf("nested sizes: got min %g max %g", p.minSize, p.maxSize)
	}
	if got := p.text.String(); got != "ab" {
		t.Errorf("nested text: got %q", got)
	}
}

func TestFontSet_FirstAppearanceOrder(t *testing.T) {
	fonts := newFontSet()
	aggregateFont(container(
		glyph("a", serifBold, 12),
		glyph("b", serif, 10),
		glyph("c", serifBold, 12),
	), fonts)

	want := []string{serifBold, serif}
	if len(fonts.names) != len(want) {
		t.Fatalf("expected %v, got %v", want, fonts.names)
	}
	for i := range want {
		if fonts.names[i] != want[i] {
			t.Errorf("font %d: got %q, want %q", i, fonts.names[i], want[i])
		}
	}
}
