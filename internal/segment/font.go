package segment

import (
	"math"
	"strings"

	"lexchunk/internal/layout"
)

// Small print below this size never vetoes boldness, so footnote reference
// digits cannot strip a heading of its bold signal.
const boldVetoMinSize = 9

// fontProfile aggregates the font signals of one element. Boldness and
// italicness start true and are only ever downgraded; an element is bold only
// if every visible glyph of readable size has "Bold" in its font name.
type fontProfile struct {
	minSize float64
	maxSize float64
	bold    bool
	italic  bool
	text    strings.Builder
}

// fontSet collects distinct font names in order of first appearance.
type fontSet struct {
	names []string
	seen  map[string]bool
}

func newFontSet() *fontSet {
	return &fontSet{seen: make(map[string]bool)}
}

func (s *fontSet) add(name string) {
	if s.seen[name] {
		return
	}
	s.seen[name] = true
	s.names = append(s.names, name)
}

// aggregateFont walks one element depth-first, left to right, and returns its
// aggregated font profile and reconstructed text. Embedded line breaks become
// a single space to avoid spurious mid-sentence breaks, which is why the
// reconstruction can diverge from the element's native text; callers must
// cross-check the two before trusting font-derived heading signals.
func aggregateFont(el *layout.Node, fonts *fontSet) *fontProfile {
	p := &fontProfile{
		minSize: math.Inf(1),
		maxSize: math.Inf(-1),
		bold:    true,
		italic:  true,
	}
	p.walk(el, fonts)
	return p
}

func (p *fontProfile) walk(n *layout.Node, fonts *fontSet) {
	switch n.Kind {
	case layout.NodeGlyph:
		if n.FontSize < p.minSize {
			p.minSize = n.FontSize
		}
		if n.FontSize > p.maxSize {
			p.maxSize = n.FontSize
		}
		fonts.add(n.FontName)

		visible := strings.TrimSpace(n.Text) != ""
		// "Bold" with uppercase B only: a conservative match that holds for
		// Official Journal fonts.
		if visible && n.FontSize >= boldVetoMinSize && !strings.Contains(n.FontName, "Bold") {
			p.bold = false
		}
		// No size floor for italics. OJ fonts abbreviate to "Ital" and are
		// not caught here; centered positioning covers their headings.
		if visible && !strings.Contains(strings.ToLower(n.FontName), "italic") {
			p.italic = false
		}
		p.text.WriteString(n.Text)

	case layout.NodeLineBreak:
		p.text.WriteString(" ")

	case layout.NodeContainer:
		for _, c := range n.Children {
			p.walk(c, fonts)
		}
	}
}
