package summarizer

import (
	"context"
	"errors"
	"strings"
)

var errEmptyInput = errors.New("nothing to summarize")

// ExtractiveEngine is the offline engine: it keeps the leading sentences that
// fit within maxLength words, topping up with partial sentence words when that
// leaves fewer than minLength.
type ExtractiveEngine struct{}

func NewExtractiveEngine() *ExtractiveEngine {
	return &ExtractiveEngine{}
}

func (e *ExtractiveEngine) Name() string { return "extractive" }

func (e *ExtractiveEngine) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return "", errEmptyInput
	}

	var picked []string
	count := 0
	for _, sentence := range sentences {
		if count+len(sentence) > maxLength {
			if count < minLength {
				// Below the floor: take the leading words of the sentence that did not fit
				picked = append(picked, sentence[:max(0, maxLength-count)]...)
			}
			break
		}
		picked = append(picked, sentence...)
		count += len(sentence)
	}

	return strings.Join(picked, " "), nil
}

// splitSentences groups words into sentences ending in terminal punctuation.
func splitSentences(text string) [][]string {
	var sentences [][]string
	var current []string

	for _, word := range strings.Fields(text) {
		current = append(current, word)
		if endsSentence(word) {
			sentences = append(sentences, current)
			current = nil
		}
	}
	if len(current) > 0 {
		sentences = append(sentences, current)
	}

	return sentences
}

func endsSentence(word string) bool {
	word = strings.TrimRight(word, `"')]”’`)
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}
