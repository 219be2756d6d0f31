package chunker

import (
	"strings"
)

// separators ordered from the largest structural boundary to the smallest.
// The empty string is the terminal fallback: split between characters.
var separators = []string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " ", ""}

// Split breaks text into spans of at most size characters, overlapping
// adjacent spans by roughly overlap characters. It prefers the largest
// boundary present in the text and descends to finer ones only for pieces
// that still exceed size. The result is a pure function of its inputs:
// identical text and parameters always produce identical boundaries, and
// no content is dropped.
func Split(text string, size, overlap int) []string {
	if size <= 0 || strings.TrimSpace(text) == "" {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	return splitRecursive(text, separators, size, overlap)
}

func splitRecursive(text string, seps []string, size, overlap int) []string {
	sep, rest := pickSeparator(text, seps)
	pieces := splitAfter(text, sep)

	var chunks []string
	var pending []string
	for _, piece := range pieces {
		if len(piece) <= size {
			pending = append(pending, piece)
			continue
		}
		// Flush what accumulated so far, then descend into the oversize
		// piece with the finer separators.
		chunks = append(chunks, mergePieces(pending, size, overlap)...)
		pending = nil
		if len(rest) == 0 {
			// No finer boundary exists; emit the span whole rather than
			// drop it.
			chunks = append(chunks, piece)
			continue
		}
		chunks = append(chunks, splitRecursive(piece, rest, size, overlap)...)
	}
	return append(chunks, mergePieces(pending, size, overlap)...)
}

// pickSeparator returns the first separator that occurs in text and the
// finer separators after it. The empty separator always matches.
func pickSeparator(text string, seps []string) (string, []string) {
	for i, s := range seps {
		if s == "" {
			return "", nil
		}
		if strings.Contains(text, s) {
			return s, seps[i+1:]
		}
	}
	return "", nil
}

// splitAfter splits text keeping the separator attached to the preceding
// piece, so concatenating the pieces reproduces the input exactly.
func splitAfter(text string, sep string) []string {
	if sep == "" {
		out := make([]string, 0, len(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}
	parts := strings.SplitAfter(text, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mergePieces greedily packs boundary pieces into chunks of at most size
// characters. When a chunk is emitted, trailing pieces totalling at most
// overlap characters are carried into the next chunk.
func mergePieces(pieces []string, size, overlap int) []string {
	var chunks []string
	var window []string
	total := 0
	for _, piece := range pieces {
		if total+len(piece) > size && len(window) > 0 {
			chunks = append(chunks, strings.Join(window, ""))
			for total > overlap || (total+len(piece) > size && total > 0) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += len(piece)
	}
	if len(window) > 0 {
		chunks = append(chunks, strings.Join(window, ""))
	}
	return chunks
}
