package chunker

import (
	"strings"
	"unicode/utf8"
)

// Separators tried when looking for a natural cut inside a window, in
// order of preference.
var separators = []string{"\n\n", "\n", ". ", " "}

// Splitter splits raw text into overlapping fixed-size chunks for
// embedding. Chunks are at most Size characters long and each one overlaps
// the previous by roughly Overlap characters. All offsets are counted in
// runes, not bytes, so multibyte text is never cut mid-character.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter creates a splitter. Zero or invalid values fall back to the
// 1000/200 defaults.
func NewSplitter(size, overlap int) *Splitter {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	return &Splitter{size: size, overlap: overlap}
}

// Split returns the chunk sequence for text. An empty input yields a single
// empty chunk, never an empty slice, so ingestion always has at least one
// point to upsert.
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) <= s.size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		end := start + s.size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			return chunks
		}
		cut := s.cutPoint(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))

		next := cut - s.overlap
		if next <= start {
			next = cut
		}
		start = next
	}
}

// cutPoint looks for a natural breakpoint in the second half of the window
// and falls back to a hard cut at the window end. The returned offset is a
// rune index into runes.
func (s *Splitter) cutPoint(runes []rune, start, end int) int {
	mid := start + s.size/2
	window := string(runes[mid:end])
	for _, sep := range separators {
		if i := strings.LastIndex(window, sep); i >= 0 {
			return mid + utf8.RuneCountInString(window[:i+len(sep)])
		}
	}
	return end
}
