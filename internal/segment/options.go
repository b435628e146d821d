// Package segment turns a positioned-page document into an ordered sequence
// of heading-labeled text chunks. It is a heuristic tuned for the formatting
// conventions of EU Official Journal acts: headings are recognized by a
// combination of font signals and horizontal centering statistics collected
// over the whole document.
package segment

import (
	"fmt"
	"log/slog"
	"regexp"
)

// Chunk is one contiguous span of document text, the unit handed to
// downstream embedding and retrieval.
type Chunk struct {
	Text    string `json:"text"`
	Heading string `json:"heading"`
	Page    string `json:"page,omitempty"`
	// Embeddings is populated downstream; always empty at emission.
	Embeddings string `json:"embeddings"`
}

// Result is the output of one segmentation run.
type Result struct {
	Chunks []Chunk
	// FontNames lists every font name encountered, in order of first
	// appearance. Diagnostic only.
	FontNames []string
}

// Options are the segmentation tunables. The histogram and small-print
// settings interplay: narrower buckets and a lower line-length limit both cut
// heading false positives, at the risk of missing true headings.
type Options struct {
	// FooterPattern extracts a page number from footer-band text. Up to two
	// alternative capture groups cover odd/even footer formats. Nil disables
	// footer parsing (footer elements are still discarded).
	FooterPattern *regexp.Regexp

	// ParagraphPattern matches a paragraph marker at the start of an
	// element's stripped text. Nil disables marker detection.
	ParagraphPattern *regexp.Regexp

	// TopMargin and BottomMargin are absolute overrides, in page units, of
	// the default header band (top 8% of the page) and footer band (bottom
	// 8%). Zero means use the defaults.
	TopMargin    float64
	BottomMargin float64

	// BucketCount is the number of histogram buckets for horizontal center
	// positions. Must be odd so a perfectly centered element maps to a
	// single bucket.
	BucketCount int

	// LineLengthLimit is the maximum element width, as a fraction of page
	// width, for the alignment clause of the heading predicate.
	LineLengthLimit float64

	// HeadingCenter and HeadingCenterRadius select which histogram buckets
	// count as heading-aligned: bucket centers within the radius of the
	// expected center fraction.
	HeadingCenter       float64
	HeadingCenterRadius float64

	// SmallPrintFloor is the minimum max-glyph-size for an element to count
	// as content. Known conflict between real documents: values around
	// 8.4-8.53 cut differently, so this stays configurable.
	SmallPrintFloor float64

	// Buffer flush thresholds, in bytes.
	MarkerFlushLen  int // flush before a paragraph marker beyond this
	HeadingFlushLen int // flush before a heading beyond this
	HardFlushLen    int // unconditional ceiling when nothing else fires

	// Progress, when set, receives a human-readable status line after each
	// page. Wording is not a compatibility surface.
	Progress func(status string)

	// Log receives per-element warnings (malformed geometry). Defaults to
	// slog.Default().
	Log *slog.Logger
}

// DefaultOptions returns the tunables as calibrated on Official Journal PDFs.
func DefaultOptions() Options {
	return Options{
		BucketCount:         901,
		LineLengthLimit:     0.6,
		HeadingCenter:       0.55,
		HeadingCenterRadius: 0.15,
		SmallPrintFloor:     8.4,
		MarkerFlushLen:      1400,
		HeadingFlushLen:     500,
		HardFlushLen:        5000,
	}
}

// withDefaults fills zero-valued tunables so a partially populated Options
// still behaves sensibly.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BucketCount == 0 {
		o.BucketCount = d.BucketCount
	}
	if o.LineLengthLimit == 0 {
		o.LineLengthLimit = d.LineLengthLimit
	}
	if o.HeadingCenter == 0 {
		o.HeadingCenter = d.HeadingCenter
	}
	if o.HeadingCenterRadius == 0 {
		o.HeadingCenterRadius = d.HeadingCenterRadius
	}
	if o.SmallPrintFloor == 0 {
		o.SmallPrintFloor = d.SmallPrintFloor
	}
	if o.MarkerFlushLen == 0 {
		o.MarkerFlushLen = d.MarkerFlushLen
	}
	if o.HeadingFlushLen == 0 {
		o.HeadingFlushLen = d.HeadingFlushLen
	}
	if o.HardFlushLen == 0 {
		o.HardFlushLen = d.HardFlushLen
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}
	return o
}

// Validate rejects configuration errors eagerly, before any page is
// processed.
func (o Options) Validate() error {
	if o.BucketCount <= 0 {
		return fmt.Errorf("bucket count must be positive, got %d", o.BucketCount)
	}
	if o.BucketCount%2 == 0 {
		return fmt.Errorf("bucket count must be odd so the page center maps to a single bucket, got %d", o.BucketCount)
	}
	if o.TopMargin < 0 {
		return fmt.Errorf("top margin must not be negative, got %g", o.TopMargin)
	}
	if o.BottomMargin < 0 {
		return fmt.Errorf("bottom margin must not be negative, got %g", o.BottomMargin)
	}
	if o.LineLengthLimit <= 0 || o.LineLengthLimit > 1 {
		return fmt.Errorf("line length limit must be in (0, 1], got %g", o.LineLengthLimit)
	}
	return nil
}

// CompilePattern compiles a user-supplied pattern, returning nil for the
// empty string so absent patterns read as "feature disabled".
func CompilePattern(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
	}
	return re, nil
}
