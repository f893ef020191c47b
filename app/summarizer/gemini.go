package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

type GeminiEngine struct {
	client    *genai.Client
	modelName string
}

func NewGeminiEngine(ctx context.Context, apiKey, modelName string) (*GeminiEngine, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	return &GeminiEngine{client: client, modelName: modelName}, nil
}

func (e *GeminiEngine) Name() string { return "gemini" }

func (e *GeminiEngine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func (e *GeminiEngine) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	model := e.client.GenerativeModel(e.modelName)
	model.SetTemperature(0.2)
	// Leave headroom: words and tokens are not one to one.
	model.SetMaxOutputTokens(int32(maxLength * 2))

	resp, err := model.GenerateContent(ctx, genai.Text(summaryPrompt(text, minLength, maxLength)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from Gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	summary := strings.TrimSpace(b.String())
	if summary == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}

	return summary, nil
}

func summaryPrompt(text string, minLength, maxLength int) string {
	return fmt.Sprintf(`Summarize the following news text for a spoken briefing.

Requirements:
- Between %d and %d words.
- Plain prose, no headings, lists or markdown.
- Keep names, figures and dates exact. Do not add facts.

TEXT:
%s`, minLength, maxLength, text)
}
