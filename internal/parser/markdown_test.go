package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsAndText(t *testing.T) {
	src := `# Regulation

Opening paragraph of the act.

## Article 1

First article text.
Continued on the next line.

## Article 2

Second article text.
`
	p := &MarkdownParser{}
	chunks, err := p.Parse(strings.NewReader(src), "act.md")
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %+v", len(chunks), chunks)
	}
	if chunks[0].Heading != "Regulation" || chunks[0].Text != "Opening paragraph of the act." {
		t.Errorf("chunk 0: %+v", chunks[0])
	}
	if chunks[1].Heading != "Article 1" {
		t.Errorf("chunk 1 heading: %q", chunks[1].Heading)
	}
	if !strings.Contains(chunks[1].Text, "First article text.") ||
		!strings.Contains(chunks[1].Text, "Continued on the next line.") {
		t.Errorf("chunk 1 text: %q", chunks[1].Text)
	}
	if chunks[2].Heading != "Article 2" || chunks[2].Text != "Second article text." {
		t.Errorf("chunk 2: %+v", chunks[2])
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	p := &MarkdownParser{}
	chunks, err := p.Parse(strings.NewReader("just a paragraph\n\nand another\n"), "plain.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Heading != "" {
		t.Errorf("expected empty heading, got %q", chunks[0].Heading)
	}
	if !strings.Contains(chunks[0].Text, "just a paragraph") {
		t.Errorf("text: %q", chunks[0].Text)
	}
}

func TestMarkdownParser_TextNotDuplicated(t *testing.T) {
	p := &MarkdownParser{}
	chunks, err := p.Parse(strings.NewReader("unique sentence here\n"), "p.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if got := strings.Count(chunks[0].Text, "unique sentence here"); got != 1 {
		t.Errorf("paragraph text emitted %d times: %q", got, chunks[0].Text)
	}
}
