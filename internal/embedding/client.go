// Package embedding generates text embeddings through an OpenAI-compatible HTTP API.
package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "github.com/allisson/inkleaf/internal/errors"
)

// MaxTextLength is the number of characters kept by PrepareText.
const MaxTextLength = 8000

// ErrEmptyResponse indicates the API answered without an embedding.
var ErrEmptyResponse = apperrors.Wrap(apperrors.ErrUpstream, "embedding response is empty")

// Config holds the embeddings API settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Client calls the embeddings endpoint. A client without an API key is
// disabled and Generate returns (nil, nil).
type Client struct {
	client *resty.Client
	apiKey string
	model  string
}

// NewClient creates a new Client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &Client{client: cli, apiKey: strings.TrimSpace(cfg.APIKey), model: cfg.Model}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Generate returns the embedding of text.
func (c *Client) Generate(ctx context.Context, text string) ([]float64, error) {
	if !c.Enabled() {
		return nil, nil
	}

	var result embeddingResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(embeddingRequest{Model: c.model, Input: text}).
		SetResult(&result).
		Post("/embeddings")
	if err != nil {
		return nil, fmt.Errorf("%w: embeddings request: %v", apperrors.ErrUpstream, err)
	}
	if err := mapHTTPError(resp); err != nil {
		return nil, err
	}

	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, ErrEmptyResponse
	}
	return result.Data[0].Embedding, nil
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%w: embeddings http %d: %s", apperrors.ErrUpstream, resp.StatusCode(), body)
}

// PrepareText joins the non-empty title, markdown and comma-joined tags with
// blank lines and keeps at most MaxTextLength characters.
func PrepareText(title, markdown string, tags []string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{title, markdown, strings.Join(tags, ", ")} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	combined := []rune(strings.Join(parts, "\n\n"))
	if len(combined) > MaxTextLength {
		combined = combined[:MaxTextLength]
	}
	return string(combined)
}
