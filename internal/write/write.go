// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package write drafts the article from curated evidence.
// Implements: prd005-writing (R1-R4);
//
//	docs/ARCHITECTURE § Writing.
package write

import (
	"context"
	"fmt"

	"github.com/pdiddy/content-engine/internal/contract"
	"github.com/pdiddy/content-engine/internal/extract"
	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/internal/prose"
	"github.com/pdiddy/content-engine/pkg/types"
)

// draftShape is the contract for the drafting call. Sources and takeaways
// are the only fields the model may legitimately omit.
var draftShape = contract.Shape{
	Name: "draft",
	Fields: []contract.Field{
		{Name: "title", Kind: contract.String},
		{Name: "description", Kind: contract.String},
		{Name: "content", Kind: contract.String},
		{Name: "tags", Kind: contract.Sequence},
		{Name: "key_takeaways", Kind: contract.Sequence, Optional: true},
		{Name: "sources", Kind: contract.Sequence, Optional: true},
	},
}

// Stage turns a curated record into a complete article draft with one
// generation call.
type Stage struct {
	generator generate.Generator
}

func New(generator generate.Generator) *Stage {
	return &Stage{generator: generator}
}

func (s *Stage) Name() string { return "write" }

// Execute takes a types.CuratedRecord and returns a types.DraftRecord.
// The content field is extracted with the content-preserving path: article
// bodies are multi-paragraph Markdown whose newlines and quotes must
// survive the repair of the surrounding JSON.
func (s *Stage) Execute(ctx context.Context, in any) (any, error) {
	rec, ok := in.(types.CuratedRecord)
	if !ok {
		return nil, fmt.Errorf("write: unexpected input %T, want CuratedRecord", in)
	}

	prompt, err := renderDraftPrompt(rec)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating draft: %w", err)
	}

	v, err := extract.ExtractPreserving(raw, "content")
	if err != nil {
		return nil, fmt.Errorf("parsing draft: %w", err)
	}
	obj, err := contract.Validate(draftShape, v)
	if err != nil {
		return nil, err
	}

	content := obj["content"].(string)
	words := prose.WordCount(content)

	return types.DraftRecord{
		Topic:        rec.Topic,
		Title:        obj["title"].(string),
		Description:  obj["description"].(string),
		Content:      content,
		Tags:         contract.Strings(obj, "tags"),
		KeyTakeaways: contract.Strings(obj, "key_takeaways"),
		Sources:      contract.Strings(obj, "sources"),
		WordCount:    words,
		ReadingTime:  prose.ReadingTime(words),
	}, nil
}
