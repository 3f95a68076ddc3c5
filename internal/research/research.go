// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research gathers web evidence on a topic and synthesizes it.
// Implements: prd003-research (R1-R3);
//
//	docs/ARCHITECTURE § Research.
package research

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/content-engine/internal/contract"
	"github.com/pdiddy/content-engine/internal/extract"
	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/internal/websearch"
	"github.com/pdiddy/content-engine/pkg/types"
)

const defaultMaxResults = 8

// summaryShape is the contract for the research summary call.
var summaryShape = contract.Shape{
	Name: "research-summary",
	Fields: []contract.Field{
		{Name: "summary", Kind: contract.String},
		{Name: "key_points", Kind: contract.Sequence, Optional: true},
	},
}

// Stage searches the web for the topic and asks the generator to synthesize
// the evidence into a summary with key points.
type Stage struct {
	generator  generate.Generator
	backend    websearch.Backend
	maxResults int
	w          io.Writer
}

// New builds the research stage. maxResults <= 0 selects the default.
func New(generator generate.Generator, backend websearch.Backend, maxResults int, w io.Writer) *Stage {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Stage{generator: generator, backend: backend, maxResults: maxResults, w: w}
}

func (s *Stage) Name() string { return "research" }

// Execute takes the topic string and returns a types.ResearchRecord.
func (s *Stage) Execute(ctx context.Context, in any) (any, error) {
	topic, ok := in.(string)
	if !ok {
		return nil, fmt.Errorf("research: unexpected input %T, want topic string", in)
	}

	results, err := s.backend.Search(ctx, topic, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", topic, err)
	}
	// The backend already truncates; guard here as well so a misbehaving
	// implementation cannot inflate the prompt.
	if len(results) > s.maxResults {
		results = results[:s.maxResults]
	}
	if len(results) < s.maxResults {
		fmt.Fprintf(s.w, "warning: search returned %d of %d requested results\n", len(results), s.maxResults)
	}

	prompt, err := renderSummaryPrompt(topic, results)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating summary: %w", err)
	}

	v, err := extract.Extract(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing summary: %w", err)
	}
	obj, err := contract.Validate(summaryShape, v)
	if err != nil {
		return nil, err
	}

	return types.ResearchRecord{
		Topic:     topic,
		Summary:   obj["summary"].(string),
		KeyPoints: contract.Strings(obj, "key_points"),
		Results:   results,
	}, nil
}
