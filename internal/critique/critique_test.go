// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package critique

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/content-engine/internal/contract"
	"github.com/pdiddy/content-engine/pkg/types"
)

type mockGenerator struct {
	response string
	err      error
	prompts  []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.response, m.err
}

func draftRecord() types.DraftRecord {
	return types.DraftRecord{
		Topic:   "go pipelines",
		Title:   "Go Pipelines",
		Content: "The article body.",
	}
}

func TestExecuteBuildsCritiqueRecord(t *testing.T) {
	gen := &mockGenerator{response: `{
		"assessment": "solid",
		"strengths": ["structure"],
		"issues": [
			{"type": "clarity", "severity": "medium", "location": "intro", "issue": "vague", "suggestion": "be concrete"},
			{"type": "accuracy", "severity": "high", "location": "body", "issue": "wrong version", "suggestion": "check release notes"}
		]
	}`}
	s := New(gen)

	out, err := s.Execute(context.Background(), draftRecord())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	rec := out.(types.CritiqueRecord)

	if rec.Topic != "go pipelines" {
		t.Errorf("Topic = %q", rec.Topic)
	}
	if rec.Assessment != "solid" {
		t.Errorf("Assessment = %q", rec.Assessment)
	}
	if len(rec.Issues) != 2 {
		t.Fatalf("Issues count = %d, want 2", len(rec.Issues))
	}
	if rec.Issues[0].Severity != types.SeverityMedium {
		t.Errorf("Issues[0].Severity = %q", rec.Issues[0].Severity)
	}
	if rec.Issues[1].Type != "accuracy" {
		t.Errorf("Issues[1].Type = %q", rec.Issues[1].Type)
	}

	// The reviewed draft rides along unchanged.
	if rec.Draft.Content != "The article body." {
		t.Errorf("Draft.Content = %q", rec.Draft.Content)
	}

	// The prompt embeds the draft verbatim.
	if !strings.Contains(gen.prompts[0], "The article body.") {
		t.Error("prompt missing draft content")
	}
}

func TestExecuteInvalidSeverityAborts(t *testing.T) {
	gen := &mockGenerator{response: `{"assessment": "a", "issues": [{"type": "clarity", "severity": "catastrophic", "issue": "x"}]}`}
	s := New(gen)

	_, err := s.Execute(context.Background(), draftRecord())
	var cv *contract.Violation
	if !errors.As(err, &cv) {
		t.Fatalf("err = %v, want contract.Violation", err)
	}
	if !strings.Contains(err.Error(), "catastrophic") {
		t.Errorf("violation %q does not name the bad severity", err.Error())
	}
}

func TestExecuteEmptyIssuesAllowed(t *testing.T) {
	gen := &mockGenerator{response: `{"assessment": "flawless", "issues": []}`}
	s := New(gen)

	out, err := s.Execute(context.Background(), draftRecord())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rec := out.(types.CritiqueRecord); len(rec.Issues) != 0 {
		t.Errorf("Issues = %+v, want none", rec.Issues)
	}
}

func TestExecuteMissingIssuesFieldAborts(t *testing.T) {
	gen := &mockGenerator{response: `{"assessment": "a"}`}
	s := New(gen)

	if _, err := s.Execute(context.Background(), draftRecord()); err == nil {
		t.Fatal("Execute accepted critique without issues field")
	}
}

func TestExecuteRejectsWrongInputType(t *testing.T) {
	s := New(&mockGenerator{})
	if _, err := s.Execute(context.Background(), types.CuratedRecord{}); err == nil {
		t.Fatal("Execute accepted wrong record type")
	}
}
