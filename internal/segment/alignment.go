package segment

import (
	"sort"

	"lexchunk/internal/layout"
)

// headingBucketKeep is how many of the most populated histogram buckets are
// considered before the center-proximity filter.
const headingBucketKeep = 8

// alignmentProfile is the document-wide horizontal-position statistic used by
// the heading predicate. Built once per document, read-only afterwards.
type alignmentProfile struct {
	// edges are the bucketCount+1 bucket boundaries over [0, 1].
	edges []float64
	// headingBuckets are the bucket indices whose center lies near the
	// expected heading-center fraction.
	headingBuckets map[int]bool
}

// buildAlignmentProfile scans every page once, collecting the normalized
// horizontal centers of short lines (width below half the page), and derives
// the buckets that plausibly hold centered headings. Body lines that happen
// to be short and centered will also populate these buckets; that is a
// tolerated heuristic error, not something to correct here.
func buildAlignmentProfile(doc *layout.Document, opts Options) *alignmentProfile {
	p := &alignmentProfile{
		edges:          bucketEdges(opts.BucketCount),
		headingBuckets: make(map[int]bool),
	}

	var centers []float64
	for _, page := range doc.Pages {
		for _, el := range page.Elements {
			if el.Kind != layout.NodeContainer || !el.ValidGeometry() {
				continue
			}
			if el.Width() < page.Width/2 {
				centers = append(centers, (el.X0+el.X1)/2/page.Width)
			}
		}
	}
	if len(centers) == 0 {
		// Degenerate document: heading detection falls back to font
		// signals alone.
		return p
	}

	counts := make([]int, opts.BucketCount)
	for _, c := range centers {
		counts[p.bucketOf(c)]++
	}

	// Top buckets by count, ties broken by index order.
	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return counts[order[a]] < counts[order[b]] })

	keep := headingBucketKeep
	if keep > len(order) {
		keep = len(order)
	}
	for _, idx := range order[len(order)-keep:] {
		center := (p.edges[idx] + p.edges[idx+1]) / 2
		if abs(center-opts.HeadingCenter) < opts.HeadingCenterRadius {
			p.headingBuckets[idx] = true
		}
	}
	return p
}

// bucketOf maps a normalized position to its bucket index: the rightmost
// bucket whose lower edge does not exceed the position.
func (p *alignmentProfile) bucketOf(pos float64) int {
	idx := sort.Search(len(p.edges), func(i int) bool { return p.edges[i] > pos }) - 1
	if idx < 0 {
		return 0
	}
	if idx >= len(p.edges)-1 {
		return len(p.edges) - 2
	}
	return idx
}

// alignedCenter reports whether the element's horizontal center falls into a
// heading bucket and the element is short enough to plausibly be a heading.
func (p *alignmentProfile) alignedCenter(el *layout.Node, pageWidth, lineLengthLimit float64) bool {
	if len(p.headingBuckets) == 0 {
		return false
	}
	pos := (el.X0 + el.X1) / 2 / pageWidth
	return p.headingBuckets[p.bucketOf(pos)] && el.Width() < pageWidth*lineLengthLimit
}

func bucketEdges(count int) []float64 {
	edges := make([]float64, count+1)
	for i := range edges {
		edges[i] = float64(i) / float64(count)
	}
	return edges
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
