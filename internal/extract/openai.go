package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIExtractor implements Extractor using the OpenAI vision API. Vision
// models only take images, so PDF receipts are rendered to PNG first.
type OpenAIExtractor struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewOpenAIExtractor creates an OpenAI-backed receipt extractor.
func NewOpenAIExtractor(apiKey, model string, temperature float32, logger *zap.Logger) *OpenAIExtractor {
	return &OpenAIExtractor{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// ExtractText sends the receipt to the vision API with the extraction prompt.
func (e *OpenAIExtractor) ExtractText(ctx context.Context, receipt []byte, mimeType string) (string, error) {
	imageBytes, imageMime := receipt, mimeType
	if mimeType == "application/pdf" {
		converted, err := RenderPDFPage(receipt)
		if err != nil {
			return "", fmt.Errorf("failed to render PDF receipt: %w", err)
		}
		imageBytes, imageMime = converted, "image/png"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", imageMime, base64.StdEncoding.EncodeToString(imageBytes))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: extractionPrompt,
					},
				},
			},
		},
	})
	if err != nil {
		e.logger.Error("OpenAI API call failed", zap.Error(err))
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
