// Package llm is a minimal client for Ollama's native generate API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnreachable is returned when the Ollama endpoint cannot be reached.
// Timeouts are folded into it: a stalled call and a refused connection are
// handled identically by callers.
var ErrUnreachable = errors.New("llm: ollama unreachable")

// ErrBadStatus is returned when the endpoint answers with a non-2xx status.
var ErrBadStatus = errors.New("llm: ollama not responding properly")

// Config configures the Ollama client.
type Config struct {
	Host    string        // base URL, e.g. http://localhost:11434
	Timeout time.Duration // per-call bound, applied to every request
}

// Client talks to a single Ollama host. It is safe for concurrent use.
type Client struct {
	cfg    Config
	client *http.Client
}

// New creates a client. Zero config fields fall back to the local default
// host and a 30 second timeout.
func New(cfg Config) *Client {
	if cfg.Host == "" {
		cfg.Host = "http://localhost:11434"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// GenerateRequest is the body of POST /api/generate. Streaming is always
// disabled; the pipeline wants one complete response per call.
type GenerateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends a completion request and returns the model's response text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	req.Stream = false

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding generate request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.Host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading generate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: generate returned %d: %s", ErrBadStatus, resp.StatusCode, truncate(string(body), 512))
	}

	var gen generateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}
	return gen.Response, nil
}

// GenerateWithImage sends an instruction prompt with a base64-encoded image
// appended, matching the generate API's plain {model, prompt} contract.
func (c *Client) GenerateWithImage(ctx context.Context, model, prompt, imageBase64 string) (string, error) {
	return c.Generate(ctx, GenerateRequest{
		Model:  model,
		Prompt: prompt + "\n\nImage data: " + imageBase64,
	})
}

// Ping probes GET /api/tags. It returns nil when the endpoint answers 200,
// ErrUnreachable when it cannot be reached, and ErrBadStatus otherwise.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Host+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("building tags request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: tags returned %d", ErrBadStatus, resp.StatusCode)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
