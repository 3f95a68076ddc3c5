// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package revise rewrites a draft in response to critique findings.
// Implements: prd007-revision (R1-R3);
//
//	docs/ARCHITECTURE § Revision.
//
// Revision issues two generation calls in sequence: first an improvement
// plan responding to the critique, then a rewrite conditioned on that plan.
// The second prompt depends on the parsed result of the first, so the calls
// can never overlap.
package revise

import (
	"context"
	"fmt"

	"github.com/pdiddy/content-engine/internal/contract"
	"github.com/pdiddy/content-engine/internal/extract"
	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/internal/prose"
	"github.com/pdiddy/content-engine/pkg/types"
)

// planShape is the contract for the improvement-plan call.
var planShape = contract.Shape{
	Name: "revision-plan",
	Fields: []contract.Field{
		{Name: "changes", Kind: contract.Sequence},
	},
}

// changeShape is the contract for each element of the changes sequence.
var changeShape = contract.Shape{
	Name: "revision-change",
	Fields: []contract.Field{
		{Name: "type", Kind: contract.String},
		{Name: "description", Kind: contract.String},
		{Name: "before", Kind: contract.String, Optional: true},
		{Name: "after", Kind: contract.String, Optional: true},
	},
}

// rewriteShape is the contract for the rewrite call.
var rewriteShape = contract.Shape{
	Name: "revision-rewrite",
	Fields: []contract.Field{
		{Name: "title", Kind: contract.String},
		{Name: "description", Kind: contract.String},
		{Name: "content", Kind: contract.String},
		{Name: "tags", Kind: contract.Sequence},
	},
}

// Stage plans and applies a revision of the critiqued draft.
type Stage struct {
	generator generate.Generator
}

func New(generator generate.Generator) *Stage {
	return &Stage{generator: generator}
}

func (s *Stage) Name() string { return "revise" }

// Execute takes a types.CritiqueRecord and returns a types.RevisedRecord.
func (s *Stage) Execute(ctx context.Context, in any) (any, error) {
	rec, ok := in.(types.CritiqueRecord)
	if !ok {
		return nil, fmt.Errorf("revise: unexpected input %T, want CritiqueRecord", in)
	}

	changes, err := s.plan(ctx, rec)
	if err != nil {
		return nil, err
	}

	return s.rewrite(ctx, rec, changes)
}

// plan asks for an improvement plan responding to each critique finding.
func (s *Stage) plan(ctx context.Context, rec types.CritiqueRecord) ([]types.ChangeLogEntry, error) {
	prompt, err := renderPlanPrompt(rec)
	if err != nil {
		return nil, fmt.Errorf("rendering plan prompt: %w", err)
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating revision plan: %w", err)
	}

	v, err := extract.Extract(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing revision plan: %w", err)
	}
	obj, err := contract.Validate(planShape, v)
	if err != nil {
		return nil, err
	}

	entries := obj["changes"].([]any)
	changes := make([]types.ChangeLogEntry, 0, len(entries))
	for i, e := range entries {
		c, err := contract.Validate(changeShape, e)
		if err != nil {
			return nil, fmt.Errorf("change %d: %w", i, err)
		}
		before, _ := c["before"].(string)
		after, _ := c["after"].(string)
		changes = append(changes, types.ChangeLogEntry{
			Type:        c["type"].(string),
			Description: c["description"].(string),
			Before:      before,
			After:       after,
		})
	}
	return changes, nil
}

// rewrite asks for the full rewritten article conditioned on the plan.
func (s *Stage) rewrite(ctx context.Context, rec types.CritiqueRecord, changes []types.ChangeLogEntry) (types.RevisedRecord, error) {
	prompt, err := renderRewritePrompt(rec.Draft, changes)
	if err != nil {
		return types.RevisedRecord{}, fmt.Errorf("rendering rewrite prompt: %w", err)
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return types.RevisedRecord{}, fmt.Errorf("generating rewrite: %w", err)
	}

	v, err := extract.ExtractPreserving(raw, "content")
	if err != nil {
		return types.RevisedRecord{}, fmt.Errorf("parsing rewrite: %w", err)
	}
	obj, err := contract.Validate(rewriteShape, v)
	if err != nil {
		return types.RevisedRecord{}, err
	}

	content := obj["content"].(string)
	words := prose.WordCount(content)

	return types.RevisedRecord{
		Topic:       rec.Topic,
		Title:       obj["title"].(string),
		Description: obj["description"].(string),
		Content:     content,
		Tags:        contract.Strings(obj, "tags"),
		WordCount:   words,
		ReadingTime: prose.ReadingTime(words),
		ChangeLog:   changes,
	}, nil
}
