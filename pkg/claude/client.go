package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arvel0/canopy/pkg/domain"
)

const (
	// DefaultBaseURL is the Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"
	// DefaultVersion is the anthropic-version header value.
	DefaultVersion = "2023-06-01"
	// DefaultMaxTokens bounds the response length.
	DefaultMaxTokens = 1024
	// DefaultTimeout bounds a single request when no custom http.Client is given.
	DefaultTimeout = 120 * time.Second
)

// Caller is the invocation contract nodes depend on.
// Tests inject fakes; production wires *Client.
type Caller interface {
	// RunPrompt sends a text-only prompt and returns the response text.
	RunPrompt(ctx context.Context, req PromptRequest) (string, error)
	// DescribeImage sends an image plus a prompt and returns the response text.
	DescribeImage(ctx context.Context, req VisionRequest) (string, error)
}

// PromptRequest is a text-only model call.
type PromptRequest struct {
	Prompt       string
	SystemPrompt string
	Model        string
	APIKey       string
}

// VisionRequest is an image + text model call.
type VisionRequest struct {
	Image        *domain.Image
	Prompt       string
	SystemPrompt string
	Model        string
	APIKey       string
}

// Client talks to the Anthropic Messages API.
type Client struct {
	baseURL    string
	version    string
	maxTokens  int
	httpClient *http.Client
}

var _ Caller = (*Client)(nil)

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (useful for tests and proxies).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithVersion overrides the anthropic-version header.
func WithVersion(version string) Option {
	return func(c *Client) { c.version = version }
}

// WithMaxTokens overrides the response token budget.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// WithHTTPClient injects a custom http.Client (timeouts, transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client with defaults applied.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		version:   DefaultVersion,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return c
}

// --- Wire types (Messages API) ---

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// RunPrompt sends a text-only prompt.
func (c *Client) RunPrompt(ctx context.Context, req PromptRequest) (string, error) {
	body := messagesRequest{
		Model:     req.Model,
		MaxTokens: c.maxTokens,
		System:    req.SystemPrompt,
		Messages: []message{{
			Role:    "user",
			Content: []contentBlock{{Type: "text", Text: req.Prompt}},
		}},
	}
	return c.send(ctx, req.APIKey, body)
}

// DescribeImage sends an image content block followed by the prompt text.
func (c *Client) DescribeImage(ctx context.Context, req VisionRequest) (string, error) {
	if req.Image == nil {
		return "", fmt.Errorf("image is required")
	}
	body := messagesRequest{
		Model:     req.Model,
		MaxTokens: c.maxTokens,
		System:    req.SystemPrompt,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{
					Type: "image",
					Source: &imageSource{
						Type:      "base64",
						MediaType: req.Image.MediaType,
						Data:      req.Image.Base64(),
					},
				},
				{Type: "text", Text: req.Prompt},
			},
		}},
	}
	return c.send(ctx, req.APIKey, body)
}

func (c *Client) send(ctx context.Context, apiKey string, body messagesRequest) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("api key is required")
	}
	if body.Model == "" {
		return "", fmt.Errorf("model is required")
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", c.version)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil {
			apiErr.Type = envelope.Error.Type
			apiErr.Message = envelope.Error.Message
		}
		return "", apiErr
	}

	var parsed messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
