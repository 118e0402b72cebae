package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mealplan-generator/internal/infrastructure/config"
	"mealplan-generator/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://openrouter.ai/api/v1"

// ErrRateLimited marks an upstream throttling response (HTTP 429).
var ErrRateLimited = errors.New("openrouter: rate limited")

// ErrNoImage marks an image-capable completion that carried no image.
var ErrNoImage = errors.New("openrouter: no image in response")

// Client is the OpenRouter API client. One client serves both the text and
// the image capability; only the model differs per call.
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient creates an OpenRouter client.
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.OpenRouter.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://mealplan-generator.app").
		SetHeader("X-Title", "Meal Plan Generator")

	return &Client{
		config: cfg,
		client: client,
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Images  []struct {
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateText sends a text prompt to the configured text model and returns
// the first choice content verbatim.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	req := map[string]interface{}{
		"model": c.config.OpenRouter.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"max_tokens": c.config.OpenRouter.MaxTokens,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		common.LogWarn("OpenRouter is throttling",
			zap.String("model", c.config.OpenRouter.Model),
		)
		return "", fmt.Errorf("%w: %s", ErrRateLimited, resp.String())
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenRouter API returned error (status %d): %s", resp.StatusCode(), resp.String())
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	content := result.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty content in OpenRouter response")
	}

	common.LogDebug("OpenRouter text generation completed",
		zap.String("model", c.config.OpenRouter.Model),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)

	return content, nil
}

// GenerateImage asks the configured image model for a single illustration
// and returns its reference, either a remote URL or a data URL. Zero images
// in the answer is an error here; callers decide whether that is fatal.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	req := map[string]interface{}{
		"model": c.config.OpenRouter.ImageModel,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"modalities": []string{"image", "text"},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send image request to OpenRouter: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: %s", ErrRateLimited, resp.String())
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenRouter image API returned error (status %d)", resp.StatusCode())
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter image response: %w", err)
	}

	if len(result.Choices) == 0 || len(result.Choices[0].Message.Images) == 0 {
		return "", ErrNoImage
	}

	url := result.Choices[0].Message.Images[0].ImageURL.URL
	if url == "" {
		return "", ErrNoImage
	}

	return url, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
