// Package completion provides a minimal client for an OpenAI-compatible
// chat completions endpoint (Groq in production).
//
// The client is deliberately narrow: one Complete call mapping a role-tagged
// message sequence to one generated reply. Upstream failures preserve the
// raw HTTP status code and response body via StatusError so callers can
// surface them verbatim.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message is one role-tagged entry in a conversation window.
// Role values are restricted to system, user and assistant.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Params are the fixed generation parameters. They are configured once at
// startup and never negotiated per call.
type Params struct {
	Temperature float32
	MaxTokens   int
}

// StatusError is returned when the upstream endpoint answers with a
// non-success status. It carries the raw status code and error body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("groq error %d: %s", e.StatusCode, e.Body)
}

// maxErrorBodyBytes caps how much of an upstream error body is kept.
const maxErrorBodyBytes = 4096

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL string // e.g. "https://api.groq.com/openai/v1"
	APIKey  string
	Model   string
	Params  Params
	Timeout time.Duration // zero means no client-side timeout

	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	params     Params
	httpClient *http.Client
}

// NewClient creates a completion client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		params:     cfg.Params,
		httpClient: httpClient,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation window upstream and returns the generated
// reply, trimmed of surrounding whitespace. An empty or absent completion
// yields an empty string and no error; substituting a placeholder is the
// caller's concern.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.params.Temperature,
		MaxTokens:   c.params.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
