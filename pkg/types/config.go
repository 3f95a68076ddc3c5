// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "content-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call the Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens caps the response length per generation call (default 8192).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxRetries is the number of retry attempts for failed generation
	// calls. The default is 0: one attempt per call, failures propagate.
	// Bounded retry with backoff is a deployment decision, not a stage
	// behavior (prd001-pipeline R4.3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SearchConfig holds settings for the web search collaborator.
// Per prd003-research R2.1-R2.4.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the search API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the number of results the research stage requests
	// (default 8). The stage truncates defensively if the backend
	// returns more.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxRetries bounds HTTP 429 retries at the transport layer.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PublishConfig holds settings for the publication stage.
// Per prd008-publishing R1.1.
type PublishConfig struct {
	// OutputDir is the directory articles are written to
	// (e.g. "output/articles/").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// StoreConfig holds settings for the run history store.
type StoreConfig struct {
	// Dir is the directory containing the history database
	// (e.g. "output/history/").
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations for a pipeline run.
type PipelineConfig struct {
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Publish PublishConfig `json:"publish" yaml:"publish"`
	Store   StoreConfig   `json:"store" yaml:"store"`
}
