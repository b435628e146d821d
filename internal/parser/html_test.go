package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_HeadingsAndBlocks(t *testing.T) {
	src := `<html><head><title>ignored</title></head><body>
<nav>site navigation</nav>
<h1>Regulation</h1>
<p>Opening paragraph.</p>
<h2>Article 1</h2>
<p>Article text with <b>markup</b> inside.</p>
<script>var ignored = true;</script>
<footer>footer boilerplate</footer>
</body></html>`

	p := &HTMLParser{}
	chunks, err := p.Parse(strings.NewReader(src), "act.html")
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %+v", len(chunks), chunks)
	}
	if chunks[0].Heading != "Regulation" || chunks[0].Text != "Opening paragraph." {
		t.Errorf("chunk 0: %+v", chunks[0])
	}
	if chunks[1].Heading != "Article 1" {
		t.Errorf("chunk 1 heading: %q", chunks[1].Heading)
	}
	if !strings.Contains(chunks[1].Text, "markup") {
		t.Errorf("inline markup text lost: %q", chunks[1].Text)
	}
	for _, c := range chunks {
		if strings.Contains(c.Text, "navigation") || strings.Contains(c.Text, "ignored") ||
			strings.Contains(c.Text, "boilerplate") {
			t.Errorf("skipped-tag content leaked: %+v", c)
		}
	}
}

func TestHTMLParser_ListItems(t *testing.T) {
	src := `<body><h2>Annex</h2><ul><li>first item</li><li>second item</li></ul></body>`
	p := &HTMLParser{}
	chunks, err := p.Parse(strings.NewReader(src), "annex.html")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "first item\n\nsecond item" {
		t.Errorf("text: %q", chunks[0].Text)
	}
}
