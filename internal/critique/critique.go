// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package critique reviews a draft and produces structured findings.
// Implements: prd006-critique (R1-R2);
//
//	docs/ARCHITECTURE § Critique.
package critique

import (
	"context"
	"fmt"

	"github.com/pdiddy/content-engine/internal/contract"
	"github.com/pdiddy/content-engine/internal/extract"
	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/pkg/types"
)

// critiqueShape is the contract for the review call.
var critiqueShape = contract.Shape{
	Name: "critique",
	Fields: []contract.Field{
		{Name: "assessment", Kind: contract.String},
		{Name: "strengths", Kind: contract.Sequence, Optional: true},
		{Name: "issues", Kind: contract.Sequence},
	},
}

// issueShape is the contract for each element of the issues sequence.
// Severity ranks findings for human triage only; no severity value gates
// the pipeline (prd006-critique R2.3).
var issueShape = contract.Shape{
	Name: "critique-issue",
	Fields: []contract.Field{
		{Name: "type", Kind: contract.String},
		{Name: "severity", Kind: contract.String, Enum: []string{
			string(types.SeverityLow), string(types.SeverityMedium), string(types.SeverityHigh),
		}},
		{Name: "location", Kind: contract.String, Optional: true},
		{Name: "issue", Kind: contract.String},
		{Name: "suggestion", Kind: contract.String, Optional: true},
	},
}

// Stage asks the generator to review the draft like an editor.
type Stage struct {
	generator generate.Generator
}

func New(generator generate.Generator) *Stage {
	return &Stage{generator: generator}
}

func (s *Stage) Name() string { return "critique" }

// Execute takes a types.DraftRecord and returns a types.CritiqueRecord.
// The draft rides along unchanged so the revision stage can rewrite it.
func (s *Stage) Execute(ctx context.Context, in any) (any, error) {
	draft, ok := in.(types.DraftRecord)
	if !ok {
		return nil, fmt.Errorf("critique: unexpected input %T, want DraftRecord", in)
	}

	prompt, err := renderCritiquePrompt(draft)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating critique: %w", err)
	}

	v, err := extract.Extract(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing critique: %w", err)
	}
	obj, err := contract.Validate(critiqueShape, v)
	if err != nil {
		return nil, err
	}

	issues, err := convertIssues(obj["issues"].([]any))
	if err != nil {
		return nil, err
	}

	return types.CritiqueRecord{
		Topic:      draft.Topic,
		Draft:      draft,
		Assessment: obj["assessment"].(string),
		Strengths:  contract.Strings(obj, "strengths"),
		Issues:     issues,
	}, nil
}

// convertIssues validates each finding and maps it to a CritiqueIssue.
func convertIssues(entries []any) ([]types.CritiqueIssue, error) {
	issues := make([]types.CritiqueIssue, 0, len(entries))
	for i, e := range entries {
		obj, err := contract.Validate(issueShape, e)
		if err != nil {
			return nil, fmt.Errorf("issue %d: %w", i, err)
		}
		location, _ := obj["location"].(string)
		suggestion, _ := obj["suggestion"].(string)
		issues = append(issues, types.CritiqueIssue{
			Type:       obj["type"].(string),
			Severity:   types.Severity(obj["severity"].(string)),
			Location:   location,
			Issue:      obj["issue"].(string),
			Suggestion: suggestion,
		})
	}
	return issues, nil
}
