// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/content-engine/pkg/types"
)

type recordingSink struct {
	doc  Document
	slug string
	date string
	err  error
}

func (s *recordingSink) Publish(_ context.Context, doc Document, slug, date string) (string, error) {
	s.doc, s.slug, s.date = doc, slug, date
	if s.err != nil {
		return "", s.err
	}
	return "output/articles/" + date + "-" + slug + ".md", nil
}

func revisedFixture() types.RevisedRecord {
	return types.RevisedRecord{
		Topic:       "memory caches",
		Title:       "Caching: Trading Memory for Latency",
		Description: "Where caches pay off.",
		Content:     "Caching trades memory for latency.",
		Tags:        []string{"caching", "performance"},
		WordCount:   5,
		ReadingTime: 1,
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestExecuteBuildsPublishedRecord(t *testing.T) {
	sink := &recordingSink{}
	stage := New(sink)
	stage.now = fixedClock

	out, err := stage.Execute(context.Background(), revisedFixture())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	rec, ok := out.(types.PublishedRecord)
	if !ok {
		t.Fatalf("output type %T, want PublishedRecord", out)
	}

	if rec.Slug != "caching-trading-memory-for-latency" {
		t.Errorf("slug %q", rec.Slug)
	}
	if rec.Date != "2026-03-14" {
		t.Errorf("date %q", rec.Date)
	}
	if rec.Location != "output/articles/2026-03-14-caching-trading-memory-for-latency.md" {
		t.Errorf("location %q", rec.Location)
	}
	if rec.WordCount != 5 || rec.ReadingTime != 1 {
		t.Errorf("metrics %d/%d", rec.WordCount, rec.ReadingTime)
	}

	fm := sink.doc.Frontmatter
	if fm.Title != "Caching: Trading Memory for Latency" || fm.Topic != "memory caches" {
		t.Errorf("frontmatter %+v", fm)
	}
	if fm.Date != rec.Date {
		t.Errorf("frontmatter date %q, record date %q", fm.Date, rec.Date)
	}
}

func TestExecuteSinkFailure(t *testing.T) {
	boom := errors.New("disk full")
	stage := New(&recordingSink{err: boom})
	stage.now = fixedClock

	_, err := stage.Execute(context.Background(), revisedFixture())
	if !errors.Is(err, boom) {
		t.Fatalf("error %v, want wrapped %v", err, boom)
	}
}

func TestExecuteWrongInputType(t *testing.T) {
	stage := New(&recordingSink{})
	if _, err := stage.Execute(context.Background(), 42); err == nil {
		t.Fatal("expected error for wrong input type")
	}
}

func TestFileSinkWritesFrontmatterAndBody(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(filepath.Join(dir, "articles"))

	doc := Document{
		Frontmatter: Frontmatter{
			Title:       "Caching Basics",
			Description: "An overview.",
			Date:        "2026-03-14",
			Tags:        []string{"caching"},
			Topic:       "memory caches",
			WordCount:   5,
			ReadingTime: 1,
		},
		Content: "Caches hold hot data close to the consumer.",
	}

	location, err := sink.Publish(context.Background(), doc, "caching-basics", "2026-03-14")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if filepath.Base(location) != "2026-03-14-caching-basics.md" {
		t.Errorf("location %q", location)
	}

	raw, err := os.ReadFile(location)
	if err != nil {
		t.Fatalf("reading article: %v", err)
	}
	body := string(raw)

	if !strings.HasPrefix(body, "---\n") {
		t.Error("missing opening frontmatter fence")
	}
	parts := strings.SplitN(body, "---\n", 3)
	if len(parts) != 3 {
		t.Fatalf("body not split into frontmatter and content: %q", body)
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		t.Fatalf("unmarshaling frontmatter: %v", err)
	}
	if fm.Title != "Caching Basics" {
		t.Errorf("frontmatter title %q", fm.Title)
	}
	if fm.WordCount != 5 || fm.ReadingTime != 1 {
		t.Errorf("frontmatter metrics %d/%d", fm.WordCount, fm.ReadingTime)
	}

	if !strings.Contains(parts[2], "Caches hold hot data close to the consumer.") {
		t.Error("content missing from body")
	}
	if !strings.HasSuffix(body, "\n") {
		t.Error("article should end with a newline")
	}
}

func TestFileSinkCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "articles")
	sink := NewFileSink(dir)

	_, err := sink.Publish(context.Background(), Document{Content: "x"}, "x", "2026-01-01")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output directory not created: %v", err)
	}
}
