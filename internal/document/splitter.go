package document

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/alan-mat/sway/internal/api"
)

// Fixed split geometry. The overlap keeps context that straddles a
// window boundary present in both neighbouring chunks.
const (
	chunkSize    = 1000
	chunkOverlap = 200
)

// Chunk is the unit of retrieval: a bounded window of document text and
// the page it was taken from.
type Chunk struct {
	Text string
	Page int
}

type Splitter struct {
	inner textsplitter.RecursiveCharacter
}

func NewSplitter() *Splitter {
	s := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)
	return &Splitter{inner: s}
}

// Split chunks a document page by page, preserving page attribution.
func (s *Splitter) Split(doc *api.DocumentContent) ([]*Chunk, error) {
	var chunks []*Chunk
	for _, page := range doc.Pages {
		text := strings.TrimSpace(page.Text)
		if text == "" {
			continue
		}

		parts, err := s.inner.SplitText(text)
		if err != nil {
			return nil, err
		}

		for _, part := range parts {
			if strings.TrimSpace(part) == "" {
				continue
			}
			chunks = append(chunks, &Chunk{
				Text: part,
				Page: page.Index,
			})
		}
	}
	return chunks, nil
}
