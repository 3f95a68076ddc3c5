// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/content-engine/pkg/types"
)

func testCfg() types.SearchConfig {
	return types.SearchConfig{APIKey: "test-key"}
}

func braveBody(n int) string {
	body := `{"web":{"results":[`
	for i := 0; i < n; i++ {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"title":"t%d","url":"https://example.com/%d","description":"s%d"}`, i, i, i)
	}
	return body + `]}}`
}

func TestNewBraveBackendRequiresKey(t *testing.T) {
	if _, err := NewBraveBackend(types.SearchConfig{}, nil); err == nil {
		t.Fatal("NewBraveBackend accepted empty API key")
	}
}

func TestSearchRequestParams(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, braveBody(2))
	}))
	defer ts.Close()

	old := braveAPIBase
	braveAPIBase = ts.URL
	defer func() { braveAPIBase = old }()

	b, err := NewBraveBackend(testCfg(), ts.Client())
	if err != nil {
		t.Fatalf("NewBraveBackend: %v", err)
	}

	results, err := b.Search(context.Background(), "go pipelines", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	q := captured.URL.Query()
	if got := q.Get("q"); got != "go pipelines" {
		t.Errorf("q param = %q", got)
	}
	if got := q.Get("count"); got != "5" {
		t.Errorf("count param = %q", got)
	}
	if got := captured.Header.Get("X-Subscription-Token"); got != "test-key" {
		t.Errorf("token header = %q", got)
	}

	if results[0].Title != "t0" || results[0].Snippet != "s0" || results[0].Link != "https://example.com/0" {
		t.Errorf("results[0] = %+v", results[0])
	}
}

func TestSearchTruncatesOverReturn(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, braveBody(10))
	}))
	defer ts.Close()

	old := braveAPIBase
	braveAPIBase = ts.URL
	defer func() { braveAPIBase = old }()

	b, _ := NewBraveBackend(testCfg(), ts.Client())
	results, err := b.Search(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("len(results) = %d, want 3 (defensive truncation)", len(results))
	}
}

func TestSearchUnderReturnPassesThrough(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, braveBody(1))
	}))
	defer ts.Close()

	old := braveAPIBase
	braveAPIBase = ts.URL
	defer func() { braveAPIBase = old }()

	b, _ := NewBraveBackend(testCfg(), ts.Client())
	results, err := b.Search(context.Background(), "q", 8)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(results))
	}
}

func TestSearchHTTPErrorPropagates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	old := braveAPIBase
	braveAPIBase = ts.URL
	defer func() { braveAPIBase = old }()

	b, _ := NewBraveBackend(testCfg(), ts.Client())
	if _, err := b.Search(context.Background(), "q", 3); err == nil {
		t.Fatal("Search succeeded on HTTP 403")
	}
}

func TestSearchRejectsNonPositiveCount(t *testing.T) {
	b, _ := NewBraveBackend(testCfg(), http.DefaultClient)
	if _, err := b.Search(context.Background(), "q", 0); err == nil {
		t.Fatal("Search accepted maxResults 0")
	}
}
