package parser

import (
	"bufio"
	"io"
	"strings"

	"lexchunk/internal/segment"
)

// TextParser chunks plain text by blank-line paragraphs. There is no heading
// structure to recover, so chunks carry an empty heading label.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]segment.Chunk, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	acc := &chunkAccumulator{}
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				acc.addBlock(current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		acc.addBlock(current.String())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return acc.result(), nil
}
