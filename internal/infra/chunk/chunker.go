// Package chunk splits article text into overlapping, boundary-aware
// segments sized for embedding and retrieval.
package chunk

import "strings"

// Chunk is one segment of an article's content text.
type Chunk struct {
	Text       string
	ChunkIndex int
	StartPos   int
	EndPos     int
}

// Params controls chunk sizing. Zero-value Params is invalid; use
// DefaultParams.
type Params struct {
	Min     int
	Max     int
	Overlap int
}

// DefaultParams matches the sizes the retrieval pipeline was tuned for.
var DefaultParams = Params{Min: 800, Max: 1200, Overlap: 100}

// Split breaks text into chunks per Params. Text of at most Max bytes
// produces exactly one chunk equal to the input. Longer text yields trimmed
// chunks; empty chunks are never emitted.
func Split(text string, p Params) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= p.Max {
		return []Chunk{{Text: text, ChunkIndex: 0, StartPos: 0, EndPos: len(text)}}
	}

	var chunks []Chunk
	index := 0
	start := 0

	for start < len(text) {
		end := start + p.Max
		if end > len(text) {
			end = len(text)
		}

		if end < len(text) {
			end = breakPoint(text, start, end, p.Min)
		}

		piece := strings.TrimSpace(text[start:end])
		if piece != "" {
			chunks = append(chunks, Chunk{Text: piece, ChunkIndex: index, StartPos: start, EndPos: end})
			index++
		}

		if end >= len(text) {
			break
		}

		next := end - p.Overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// breakPoint finds the cut point for a non-final window [start, end),
// preferring a sentence boundary in the last 200 chars after min, then a
// space after min, then the hard max boundary.
func breakPoint(text string, start, end, min int) int {
	window := text[start:end]

	searchFrom := len(window) - 200
	if searchFrom < 0 {
		searchFrom = 0
	}

	if at := lastSentenceBreak(window, searchFrom); at != -1 && at > min {
		return start + at + 1
	}

	if at := strings.LastIndex(window, " "); at > min {
		return start + at
	}

	return end
}

func lastSentenceBreak(window string, from int) int {
	best := -1
	for _, sep := range []string{". ", "! ", "? "} {
		if idx := strings.LastIndex(window[from:], sep); idx != -1 {
			if abs := from + idx; abs > best {
				best = abs
			}
		}
	}
	return best
}
