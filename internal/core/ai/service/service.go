package service

import (
	"context"
	"strings"
	"time"

	"mealplan-generator/internal/core/ai/openrouter"
	"mealplan-generator/internal/infrastructure/config"
	"mealplan-generator/internal/pkg/common"
)

// Service is the thin facade the pipeline talks to instead of the raw
// OpenRouter client.
type Service struct {
	config *config.Config
	client *openrouter.Client
}

// NewService creates the AI service.
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: openrouter.NewClient(cfg),
	}
}

// GenerateText answers a text prompt. Leading/trailing whitespace is
// trimmed and runs of blank lines collapsed before sending.
func (s *Service) GenerateText(ctx context.Context, prompt string, requestID string) (string, error) {
	prompt = normalizePrompt(prompt)

	start := time.Now()
	content, err := s.client.GenerateText(ctx, prompt)
	common.LogAICall(prompt, time.Since(start), err, requestID)
	if err != nil {
		return "", err
	}

	return content, nil
}

// GenerateImage answers an illustration prompt with zero or one image
// reference.
func (s *Service) GenerateImage(ctx context.Context, prompt string, requestID string) (string, error) {
	prompt = normalizePrompt(prompt)

	start := time.Now()
	url, err := s.client.GenerateImage(ctx, prompt)
	common.LogAICall(prompt, time.Since(start), err, requestID)
	if err != nil {
		return "", err
	}

	return url, nil
}

// Close releases the underlying client.
func (s *Service) Close() error {
	return s.client.Close()
}

// normalizePrompt trims the prompt and collapses runs of blank lines so
// log sizes and token counts stay predictable.
func normalizePrompt(prompt string) string {
	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}
