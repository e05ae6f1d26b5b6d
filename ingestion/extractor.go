package ingestion

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Extractor turns raw file bytes into a sequence of page texts. An extractor
// returning successfully must return at least one page.
type Extractor interface {
	Extract(data []byte, mediaType string) ([]string, error)
}

// PlainText extracts pages from text files. Form feed characters delimit
// pages; a file without them is a single page. Invalid UTF-8 sequences are
// replaced rather than rejected.
type PlainText struct{}

func (PlainText) Extract(data []byte, mediaType string) ([]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w", ErrEmptyInput)
	}
	if strings.HasPrefix(mediaType, "image/") ||
		strings.HasPrefix(mediaType, "video/") ||
		strings.HasPrefix(mediaType, "audio/") {
		return nil, fmt.Errorf("cannot extract text from %q", mediaType)
	}

	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}

	var pages []string
	for _, part := range strings.Split(text, "\f") {
		part = strings.TrimSpace(part)
		if part != "" {
			pages = append(pages, part)
		}
	}
	if len(pages) == 0 {
		pages = []string{strings.TrimSpace(text)}
	}
	return pages, nil
}
