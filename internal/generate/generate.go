// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate calls the Generative AI API that powers every pipeline
// stage. Implements: prd001-pipeline (R4);
//
//	docs/ARCHITECTURE § Generation.
//
// The backend is deliberately opaque to stages: prompt in, raw text out.
// Structure recovery is the extractor's job, never the transport's.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/pdiddy/content-engine/pkg/types"
)

// Generator abstracts the text-generation backend so stages and tests can
// supply a mock. Per Strategy pattern.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const defaultMaxTokens = 8192

// ClaudeBackend calls the Claude Messages API.
type ClaudeBackend struct {
	apiKey     string
	model      string
	maxTokens  int
	maxRetries int
	client     *http.Client
}

// NewClaudeBackend validates cfg eagerly and returns a configured backend.
// A missing API key or model fails construction, not a later pipeline run.
// client may be nil, in which case http.DefaultClient is used.
func NewClaudeBackend(cfg types.AIConfig, client *http.Client) (*ClaudeBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generate: anthropic API key is required (set .secrets/anthropic-api-key)")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("generate: AI model identifier is required")
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ClaudeBackend{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxTokens:  maxTokens,
		maxRetries: cfg.MaxRetries,
		client:     client,
	}, nil
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// backoffBase controls the base duration for exponential backoff between
// retry attempts. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// Generate sends prompt as a single user message and returns the
// concatenated text blocks of the response. With MaxRetries 0 (the default)
// one attempt is made and any failure propagates to the calling stage;
// retry is a configuration decision, not implicit behavior.
func (c *ClaudeBackend) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := c.call(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", lastErr
}

// call performs one request against the Claude API.
func (c *ClaudeBackend) call(ctx context.Context, prompt string) (string, error) {
	reqBody := claudeRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var text string
	for _, block := range cResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("Claude API returned no text content")
	}
	return text, nil
}
