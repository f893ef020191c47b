package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quickdigest/quickdigest/app/metrics"
)

// Engine produces an abstractive summary between minLength and maxLength
// tokens long.
type Engine interface {
	Name() string
	Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error)
}

// Summarizer runs a map-reduce over word chunks: each chunk is summarized,
// then the joined chunk summaries get one final pass. Engine failures degrade
// to source text instead of surfacing.
type Summarizer struct {
	engine     Engine
	chunkWords int
}

func New(engine Engine) *Summarizer {
	return &Summarizer{
		engine:     engine,
		chunkWords: DefaultChunkWords,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, text string, maxTokens int) string {
	chunks := Chunk(text, s.chunkWords)
	if len(chunks) == 0 {
		return ""
	}

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		summary, err := s.run(ctx, chunk, max(10, maxTokens/3), maxTokens)
		if err != nil {
			metrics.SummaryFallbacks.WithLabelValues("chunk").Inc()
			slog.Warn("Chunk summarization failed, using leading paragraphs",
				"engine", s.engine.Name(), "chunk", i, "error", err)
			summary = leadingParagraphs(chunk, 2)
		}
		summaries = append(summaries, summary)
	}

	if len(summaries) == 1 {
		return summaries[0]
	}

	combined := strings.Join(summaries, " ")
	final, err := s.run(ctx, combined, max(20, maxTokens/2), maxTokens)
	if err != nil {
		metrics.SummaryFallbacks.WithLabelValues("final").Inc()
		slog.Warn("Final summarization pass failed, using combined chunk summaries",
			"engine", s.engine.Name(), "chunks", len(chunks), "error", err)
		return combined
	}

	return final
}

func (s *Summarizer) run(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	summary, err := s.engine.Summarize(ctx, text, minLength, maxLength)
	if err != nil {
		return "", err
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("engine returned an empty summary")
	}

	return summary, nil
}

func leadingParagraphs(text string, n int) string {
	paragraphs := strings.Split(text, "\n\n")
	if len(paragraphs) > n {
		paragraphs = paragraphs[:n]
	}
	return strings.Join(paragraphs, " ")
}
