package segment

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"lexchunk/internal/layout"
)

// Default header and footer bands as fractions of page height, used when no
// absolute margin override is configured. Anything above the header line is a
// repeating page header; anything below the footer line is footer content.
const (
	defaultHeaderFraction = 0.92
	defaultFooterFraction = 0.08
)

// Heading predicate bounds. Elements outside these are never headings.
const (
	headingMinFontSize = 13 // min glyph size above this alone marks a heading
	headingMinRunes    = 6  // strictly more runes than this
	headingMaxRunes    = 90 // strictly fewer runes than this
)

// state is the per-document segmentation state, threaded explicitly through
// every element so nothing hides in closures.
type state struct {
	heading string
	// prevConsecHeading merges two immediately consecutive heading lines
	// into one label; a third consecutive line does not chain further back.
	prevConsecHeading string
	page              string
	buf               strings.Builder
	// bufHeading is the heading in effect when the buffer's first content
	// was appended; chunks are labeled with it, not with the heading at
	// flush time.
	bufHeading string
	chunks     []Chunk
}

func (s *state) append(text string) {
	if s.buf.Len() == 0 {
		s.bufHeading = s.heading
	}
	s.buf.WriteString(text)
}

func (s *state) flush() {
	heading := s.bufHeading
	if s.buf.Len() == 0 {
		heading = s.heading
	}
	s.chunks = append(s.chunks, Chunk{
		Text:    s.buf.String(),
		Heading: heading,
		Page:    s.page,
	})
	s.buf.Reset()
}

// Run segments a document into chunks. It makes two full passes: one to
// collect alignment statistics, one to classify elements and emit chunk
// boundaries. Missing page dimensions are fatal; a malformed element is
// skipped with a warning.
func Run(doc *layout.Document, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	for i, page := range doc.Pages {
		if page.Width <= 0 || page.Height <= 0 {
			return nil, fmt.Errorf("page %d: missing page dimensions (%gx%g)", i+1, page.Width, page.Height)
		}
	}

	profile := buildAlignmentProfile(doc, opts)
	report(opts, "Finished layout analysis of the document. Analysing formatting and text elements. Please wait.")

	fonts := newFontSet()
	s := &state{}

	for _, page := range doc.Pages {
		headerY := page.Height * defaultHeaderFraction
		if opts.TopMargin > 0 {
			headerY = opts.TopMargin
		}
		footerY := page.Height * defaultFooterFraction
		if opts.BottomMargin > 0 {
			footerY = opts.BottomMargin
		}

		for _, el := range page.Elements {
			if !el.ValidGeometry() {
				opts.Log.Warn("skipping element with malformed geometry",
					"x0", el.X0, "x1", el.X1, "y0", el.Y0, "y1", el.Y1)
				continue
			}
			// Repeating page header: never examined further.
			if el.Y0 > headerY {
				continue
			}

			native := el.PlainText()

			parMarker := ""
			if opts.ParagraphPattern != nil {
				if loc := opts.ParagraphPattern.FindStringIndex(strings.TrimSpace(native)); loc != nil && loc[0] == 0 {
					parMarker = native
				}
			}

			// Footer band: extract a page number if a pattern is set, then
			// discard the element. Footer content never enters a chunk.
			if el.Y1 < footerY {
				if opts.FooterPattern != nil {
					if m := opts.FooterPattern.FindStringSubmatch(native); m != nil {
						if len(m) >= 2 && m[1] != "" {
							s.page = m[1]
						} else if len(m) > 2 {
							s.page = m[2]
						}
					}
				}
				continue
			}

			prof := aggregateFont(el, fonts)
			text := prof.text.String()

			// Negligible small print (footnote markers and the like)
			// contributes nothing to any chunk.
			if text == "" || prof.maxSize < opts.SmallPrintFloor {
				continue
			}

			// Standardize trailing whitespace so element texts never glue
			// together.
			if !strings.HasSuffix(text, " ") && !strings.HasSuffix(text, "\n") {
				text += " "
			}

			if parMarker != "" {
				// A paragraph marker splits at a convenient length but is
				// never itself a heading trigger.
				if s.buf.Len() > opts.MarkerFlushLen {
					s.flush()
				}
				s.append(text)
				continue
			}

			if isHeading(text, native, prof, profile, el, page.Width, opts) {
				if s.buf.Len() > opts.HeadingFlushLen {
					s.flush()
				}
				s.heading = s.prevConsecHeading + text
				s.prevConsecHeading = text
			} else {
				s.prevConsecHeading = ""
				// Hard ceiling: no heading or marker for a long stretch must
				// not grow the buffer without bound.
				if s.buf.Len() > opts.HardFlushLen {
					s.flush()
				}
			}
			s.append(text)
		}

		report(opts, fmt.Sprintf("Chunking, currently under heading: %q. Page number if detected: %q", s.heading, s.page))
	}

	// Whatever remains becomes the final chunk.
	s.flush()

	return &Result{Chunks: s.chunks, FontNames: fonts.names}, nil
}

// isHeading is the heading predicate. The reconstructed text must match the
// element's native text (whitespace-normalized) or the element is not safely
// classifiable; bold-and-italic together deliberately fails the font clauses
// (amendment markup in draft acts) and can only be admitted by alignment.
func isHeading(text, native string, prof *fontProfile, profile *alignmentProfile, el *layout.Node, pageWidth float64, opts Options) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	n := utf8.RuneCountInString(text)
	if n <= headingMinRunes || n >= headingMaxRunes {
		return false
	}
	if normalizeSpace(native) != normalizeSpace(text) {
		return false
	}
	if prof.minSize > headingMinFontSize {
		return true
	}
	if prof.bold && !prof.italic {
		return true
	}
	if prof.italic && !prof.bold {
		return true
	}
	return profile.alignedCenter(el, pageWidth, opts.LineLengthLimit)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func report(opts Options, status string) {
	if opts.Progress != nil {
		opts.Progress(status)
	}
}
