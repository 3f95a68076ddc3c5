// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package curate scores research evidence for relevance and keeps the best.
// Implements: prd004-curation (R1-R3);
//
//	docs/ARCHITECTURE § Curation.
package curate

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/content-engine/internal/contract"
	"github.com/pdiddy/content-engine/internal/extract"
	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/pkg/types"
)

// relevanceThreshold is the minimum score (0-10) a result must reach to
// survive curation (prd004-curation R3.1).
const relevanceThreshold = 7

// scoresShape is the contract for the scoring call.
var scoresShape = contract.Shape{
	Name: "curation-scores",
	Fields: []contract.Field{
		{Name: "scores", Kind: contract.Sequence},
	},
}

// Stage asks the generator to judge each search result's relevance to the
// topic, then filters and ranks deterministically.
type Stage struct {
	generator generate.Generator
	w         io.Writer
}

func New(generator generate.Generator, w io.Writer) *Stage {
	return &Stage{generator: generator, w: w}
}

func (s *Stage) Name() string { return "curate" }

// Execute takes a types.ResearchRecord and returns a types.CuratedRecord.
func (s *Stage) Execute(ctx context.Context, in any) (any, error) {
	rec, ok := in.(types.ResearchRecord)
	if !ok {
		return nil, fmt.Errorf("curate: unexpected input %T, want ResearchRecord", in)
	}

	prompt, err := renderScoringPrompt(rec)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating scores: %w", err)
	}

	v, err := extract.Extract(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing scores: %w", err)
	}
	obj, err := contract.Validate(scoresShape, v)
	if err != nil {
		return nil, err
	}

	scored, defaulted := applyScores(rec.Results, obj["scores"].([]any))
	if defaulted > 0 {
		fmt.Fprintf(s.w, "warning: %d result(s) had a missing or invalid score, treated as 0 and dropped\n", defaulted)
	}

	return types.CuratedRecord{
		Topic:    rec.Topic,
		Summary:  rec.Summary,
		Selected: selectByRelevance(scored),
	}, nil
}

// applyScores matches score entries to results by index. A result the model
// skipped, or whose score is missing or non-numeric, scores 0: the
// deliberate policy is that an unscored result falls below threshold and is
// dropped with a warning. Curation leniency must never abort a run, and
// must never silently pass unvetted evidence downstream. Returns the scored
// results in retrieval order and the number of defaulted scores.
func applyScores(results []types.SearchResult, entries []any) ([]types.ScoredResult, int) {
	type judgment struct {
		score  float64
		reason string
		seen   bool
	}
	byIndex := make(map[int]judgment, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		idx, ok := m["index"].(float64)
		if !ok {
			continue
		}
		score, scoreOK := m["relevance_score"].(float64)
		reason, _ := m["reason"].(string)
		if !scoreOK {
			byIndex[int(idx)] = judgment{score: 0, reason: reason, seen: false}
			continue
		}
		byIndex[int(idx)] = judgment{score: score, reason: reason, seen: true}
	}

	defaulted := 0
	scored := make([]types.ScoredResult, len(results))
	for i, r := range results {
		j, ok := byIndex[i]
		if !ok || !j.seen {
			defaulted++
		}
		scored[i] = types.ScoredResult{
			SearchResult:   r,
			RelevanceScore: j.score,
			Reason:         j.reason,
		}
	}
	return scored, defaulted
}

// selectByRelevance keeps results scoring at or above the threshold, sorted
// descending by score. The sort is stable: ties keep retrieval order (R3.2).
func selectByRelevance(scored []types.ScoredResult) []types.ScoredResult {
	selected := make([]types.ScoredResult, 0, len(scored))
	for _, r := range scored {
		if r.RelevanceScore >= relevanceThreshold {
			selected = append(selected, r)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].RelevanceScore > selected[j].RelevanceScore
	})
	return selected
}
