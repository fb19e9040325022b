package openai

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrNoChoices indicates the model returned an empty response.
var ErrNoChoices = errors.New("model returned no choices")

// ErrEmbeddingMismatch indicates the service returned a different number of
// vectors than texts sent.
var ErrEmbeddingMismatch = errors.New("embedding count mismatch")

// maxParseAttempts bounds how often a malformed JSON answer is re-requested.
const maxParseAttempts = 3

// NewChatModel creates a langchaingo chat model for an OpenAI-compatible host.
// An empty token is replaced with "none", which local servers accept.
func NewChatModel(host, model, token string) (llms.Model, error) {
	if token == "" {
		token = "none"
	}
	return openai.New(
		openai.WithBaseURL(host),
		openai.WithToken(token),
		openai.WithModel(model),
	)
}

// GenerateJSON sends a system prompt and user input to model in JSON mode
// and decodes the answer into out. Malformed JSON is repaired when possible
// and otherwise re-requested up to three times. Transport errors are
// returned immediately.
func GenerateJSON(ctx context.Context, model llms.Model, system, input string, out any, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(input)},
		},
	}

	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		response, err := model.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			logger.Warn("failed to generate content", "attempt", attempt+1, "err", err)
			return err
		}
		if len(response.Choices) < 1 {
			return ErrNoChoices
		}

		responseText := repairJSON(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}
		return nil
	}
	return lastErr
}
