package plan

import (
	"context"
	"fmt"
	"strings"

	"mealplan-generator/internal/pkg/common"

	"go.uber.org/zap"
)

// TextGenerator is the AI text capability the requester depends on.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, requestID string) (string, error)
}

// Requester sends the composed prompt and parses the answer into a
// CandidatePlan. It fails fast: transport and parse failures surface
// immediately, retries belong to the caller of the whole pipeline.
type Requester struct {
	ai TextGenerator
}

// NewRequester creates a plan requester.
func NewRequester(ai TextGenerator) *Requester {
	return &Requester{ai: ai}
}

// Request runs one generation call and returns the parsed candidate.
func (r *Requester) Request(ctx context.Context, prompt string, requestID string) (*CandidatePlan, error) {
	content, err := r.ai.GenerateText(ctx, prompt, requestID)
	if err != nil {
		return nil, fmt.Errorf("AI service error: %w", err)
	}

	payload := extractJSONPayload(content)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in AI response")
	}

	common.LogDebug("AI plan response",
		zap.Int("response_length", len(content)),
		zap.Int("payload_length", len(payload)),
		zap.String("request_id", requestID),
	)

	var candidate CandidatePlan
	if err := common.ParseJSON(payload, &candidate); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return &candidate, nil
}

// extractJSONPayload strips code fences and any surrounding prose, keeping
// the outermost JSON object only.
func extractJSONPayload(content string) string {
	content = strings.TrimSpace(content)

	// models wrap the payload in ```json fences despite being told not to
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return content[start : end+1]
}
