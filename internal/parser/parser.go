package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"lexchunk/internal/segment"
)

// Parser converts a heading-structured text document into ordered chunks.
// PDF input does not go through here: it is segmented from page layout by the
// segment package.
type Parser interface {
	Parse(r io.Reader, filename string) ([]segment.Chunk, error)
}

// Sections longer than this are flushed mid-section, mirroring the hard
// ceiling of the layout segmenter.
const maxSectionLen = 5000

// SupportedExtensions lists the file extensions the service ingests.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
}

// ForFile returns the parser for a filename. PDF is not dispatched here
// because it takes the layout path.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// chunkAccumulator threads heading state while blocks stream in, flushing a
// chunk at each heading change and at the section length ceiling.
type chunkAccumulator struct {
	heading string
	buf     strings.Builder
	chunks  []segment.Chunk
}

func (a *chunkAccumulator) setHeading(h string) {
	a.flush()
	a.heading = h
}

func (a *chunkAccumulator) addBlock(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if a.buf.Len() > maxSectionLen {
		a.flush()
	}
	if a.buf.Len() > 0 {
		a.buf.WriteString("\n\n")
	}
	a.buf.WriteString(text)
}

func (a *chunkAccumulator) flush() {
	if a.buf.Len() == 0 {
		return
	}
	a.chunks = append(a.chunks, segment.Chunk{
		Text:    a.buf.String(),
		Heading: a.heading,
	})
	a.buf.Reset()
}

func (a *chunkAccumulator) result() []segment.Chunk {
	a.flush()
	return a.chunks
}
