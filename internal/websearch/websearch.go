// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries the web search API for evidence on a topic.
// Implements: prd003-research (R2);
//
//	docs/ARCHITECTURE § Research.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/content-engine/internal/httputil"
	"github.com/pdiddy/content-engine/pkg/types"
)

// Backend searches the web. Implementations wrap one search API; tests
// supply a mock. Per Strategy pattern (prd003-research R2.4).
type Backend interface {
	Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error)
}

// braveAPIBase is the Brave Search API endpoint. Package-level var for test substitution.
var braveAPIBase = "https://api.search.brave.com/res/v1/web/search"

// BraveBackend queries the Brave Search API.
type BraveBackend struct {
	apiKey     string
	userAgent  string
	maxRetries int
	client     *http.Client
}

// NewBraveBackend validates cfg eagerly and returns a configured backend.
func NewBraveBackend(cfg types.SearchConfig, client *http.Client) (*BraveBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("websearch: search API key is required (set .secrets/brave-api-key)")
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &BraveBackend{
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		client:     client,
	}, nil
}

// braveResponse mirrors the subset of the Brave response the pipeline uses.
type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search queries for query and returns at most maxResults results. The
// count is also passed to the API, but the backend does not trust the API
// to honor it and truncates defensively.
func (b *BraveBackend) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	if maxResults <= 0 {
		return nil, fmt.Errorf("websearch: maxResults must be positive, got %d", maxResults)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, b.client, req, b.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("calling search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d", resp.StatusCode)
	}

	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(br.Web.Results))
	for _, r := range br.Web.Results {
		if len(results) == maxResults {
			break
		}
		results = append(results, types.SearchResult{
			Title:   r.Title,
			Snippet: r.Description,
			Link:    r.URL,
		})
	}
	return results, nil
}
