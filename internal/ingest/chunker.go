package ingest

import "strings"

// SplitText cuts text into chunks of roughly size runes with the given
// overlap between consecutive chunks. Cuts prefer paragraph and word
// boundaries near the limit so chunks stay readable.
func SplitText(text string, size, overlap int) []string {
	if size < 1 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = breakPoint(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// breakPoint finds a cut position at or before limit, preferring a blank
// line, then a line break, then a space. It never moves the cut into the
// first half of the window.
func breakPoint(runes []rune, start, limit int) int {
	min := start + (limit-start)/2

	for i := limit; i > min; i-- {
		if runes[i-1] == '\n' && i >= 2 && runes[i-2] == '\n' {
			return i
		}
	}
	for i := limit; i > min; i-- {
		if runes[i-1] == '\n' {
			return i
		}
	}
	for i := limit; i > min; i-- {
		if runes[i-1] == ' ' {
			return i
		}
	}
	return limit
}
