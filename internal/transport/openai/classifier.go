package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

const classifierSystemPrompt = `You route student questions for a course assistant.
Choose one mode:
- navigate: the student wants to find or locate course material (slides, files, pages, weeks, modules)
- educate: the student wants a concept explained, derived, or worked through
Return ONLY a JSON object: {"mode": "navigate"|"educate", "confidence": 0.0-1.0, "rationale": "..."}`

// Classifier is the generative fallback behind the keyword ladder. It is
// reached through one narrow method and its failures never decide a query:
// the orchestrator falls back to navigate.
type Classifier struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewClassifier creates a chat-completion fallback classifier.
func NewClassifier(apiKey, baseURL, model string, logger *zap.Logger) *Classifier {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Classifier{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// ClassifyFreeform asks the model for a mode decision on a query the keyword
// ladder could not resolve.
func (c *Classifier) ClassifyFreeform(ctx context.Context, query string) (domain.Classification, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifierSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return domain.Classification{}, fmt.Errorf("freeform classify: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Classification{}, fmt.Errorf("freeform classify: empty response")
	}

	var parsed struct {
		Mode       string  `json:"mode"`
		Confidence float64 `json:"confidence"`
		Rationale  string  `json:"rationale"`
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return domain.Classification{}, fmt.Errorf("freeform classify: decode %q: %w", content, err)
	}

	mode, err := domain.ParseMode(parsed.Mode)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("freeform classify: %w", err)
	}

	conf := parsed.Confidence
	if conf <= 0 || conf > 1 {
		conf = 0.5
	}

	return domain.Classification{
		Mode:       mode,
		Confidence: conf,
		Rationale:  "freeform: " + parsed.Rationale,
	}, nil
}
