package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiExtractor implements Extractor using the Gemini API. Gemini accepts
// image and PDF receipts inline, so no format conversion is needed.
type GeminiExtractor struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiExtractor creates a Gemini-backed receipt extractor.
func NewGeminiExtractor(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiExtractor{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// ExtractText sends the receipt bytes with the extraction prompt and returns
// the model's raw text response.
func (e *GeminiExtractor) ExtractText(ctx context.Context, receipt []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     receipt,
					},
				},
				{Text: extractionPrompt},
			},
		},
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		e.logger.Error("Gemini call failed", zap.Error(err))
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return text, nil
}
