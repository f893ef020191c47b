package summarizer

import (
	"strings"
	"unicode"
)

const DefaultChunkWords = 500

// Chunk splits text into consecutive pieces of at most maxWords words. The
// whitespace inside a piece is kept as written, so paragraph breaks survive.
// Blank text yields no chunks.
func Chunk(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultChunkWords
	}

	var chunks []string
	start, count := -1, 0
	inWord := false

	for i, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if inWord {
			continue
		}
		inWord = true

		if count == maxWords {
			chunks = append(chunks, strings.TrimSpace(text[start:i]))
			start, count = -1, 0
		}
		if start < 0 {
			start = i
		}
		count++
	}

	if start >= 0 {
		chunks = append(chunks, strings.TrimSpace(text[start:]))
	}

	return chunks
}
