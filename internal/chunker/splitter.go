// Package chunker splits RawDocuments into overlapping TextChunks.
package chunker

import (
	"errors"
	"strings"

	"censusqa/internal/model"
)

// DefaultSeparators are tried in order; the first that yields a cut wins.
var DefaultSeparators = []string{"\n\n", "\n", " "}

// Splitter cuts text into chunks of at most Size runes. Each chunk ends on the
// strongest separator that fits, or at exactly Size runes when none does, and the
// next chunk of the same document starts exactly Overlap runes before that end.
type Splitter struct {
	size         int
	overlap      int
	maxDocuments int
	separators   [][]rune
}

func NewSplitter(size, overlap, maxDocuments int) (*Splitter, error) {
	if size <= 0 {
		return nil, errors.New("chunk size must be positive")
	}
	if overlap < 0 || overlap >= size {
		return nil, errors.New("chunk overlap must be in [0, size)")
	}
	if maxDocuments <= 0 {
		return nil, errors.New("max documents must be positive")
	}
	seps := make([][]rune, len(DefaultSeparators))
	for i, s := range DefaultSeparators {
		seps[i] = []rune(s)
	}
	return &Splitter{size: size, overlap: overlap, maxDocuments: maxDocuments, separators: seps}, nil
}

// SplitDocuments chunks the first maxDocuments documents, in order. Documents past
// the cap never contribute chunks.
func (s *Splitter) SplitDocuments(docs []model.RawDocument) []model.TextChunk {
	if len(docs) > s.maxDocuments {
		docs = docs[:s.maxDocuments]
	}
	var chunks []model.TextChunk
	for docIdx, doc := range docs {
		for i, seg := range s.SplitText(doc.Text) {
			chunks = append(chunks, model.TextChunk{
				Source:      doc.Source,
				DocumentIdx: docIdx,
				ChunkIdx:    i,
				Offset:      seg.Offset,
				Content:     seg.Content,
			})
		}
	}
	return chunks
}

// Segment is one chunk of a single text.
type Segment struct {
	Offset  int
	Content string
}

// SplitText chunks a single text. Blank text yields no segments.
func (s *Splitter) SplitText(text string) []Segment {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	n := len(runes)

	var out []Segment
	start := 0
	for {
		if n-start <= s.size {
			out = append(out, Segment{Offset: start, Content: string(runes[start:])})
			return out
		}
		// cut > start+overlap keeps the next start moving forward.
		cut := s.cutPoint(runes, start+s.overlap+1, start+s.size)
		out = append(out, Segment{Offset: start, Content: string(runes[start:cut])})
		start = cut - s.overlap
	}
}

// cutPoint returns the largest end in [lo, hi] that directly follows a separator,
// trying separators in priority order, or hi when no separator fits.
func (s *Splitter) cutPoint(runes []rune, lo, hi int) int {
	for _, sep := range s.separators {
		for end := hi; end >= lo; end-- {
			if end < len(sep) {
				break
			}
			if hasSuffixAt(runes, end, sep) {
				return end
			}
		}
	}
	return hi
}

func hasSuffixAt(runes []rune, end int, sep []rune) bool {
	for i := range sep {
		if runes[end-len(sep)+i] != sep[i] {
			return false
		}
	}
	return true
}
