// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish renders the revised article to its final destination.
// Implements: prd008-publishing (R1-R4);
//
//	docs/ARCHITECTURE § Publishing.
//
// Publishing is deterministic: it makes no generation calls and produces
// the same output for the same revised record and date.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/content-engine/internal/prose"
	"github.com/pdiddy/content-engine/pkg/types"
)

// Sink writes a finished document and reports where it landed.
type Sink interface {
	Publish(ctx context.Context, doc Document, slug, date string) (location string, err error)
}

// Document is the rendered form handed to a Sink.
type Document struct {
	Frontmatter Frontmatter
	Content     string
}

// Frontmatter is the metadata block preceding the article body.
type Frontmatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Topic       string   `yaml:"topic"`
	WordCount   int      `yaml:"word_count"`
	ReadingTime int      `yaml:"reading_time"`
}

// Stage turns a revised record into a published article.
type Stage struct {
	sink Sink
	now  func() time.Time
}

func New(sink Sink) *Stage {
	return &Stage{sink: sink, now: time.Now}
}

func (s *Stage) Name() string { return "publish" }

// Execute takes a types.RevisedRecord and returns a types.PublishedRecord.
func (s *Stage) Execute(ctx context.Context, in any) (any, error) {
	rec, ok := in.(types.RevisedRecord)
	if !ok {
		return nil, fmt.Errorf("publish: unexpected input %T, want RevisedRecord", in)
	}

	slug := prose.Slugify(rec.Title)
	date := s.now().UTC().Format("2006-01-02")

	doc := Document{
		Frontmatter: Frontmatter{
			Title:       rec.Title,
			Description: rec.Description,
			Date:        date,
			Tags:        rec.Tags,
			Topic:       rec.Topic,
			WordCount:   rec.WordCount,
			ReadingTime: rec.ReadingTime,
		},
		Content: rec.Content,
	}

	location, err := s.sink.Publish(ctx, doc, slug, date)
	if err != nil {
		return nil, fmt.Errorf("publishing %q: %w", slug, err)
	}

	return types.PublishedRecord{
		Topic:       rec.Topic,
		Title:       rec.Title,
		Slug:        slug,
		Location:    location,
		Date:        date,
		WordCount:   rec.WordCount,
		ReadingTime: rec.ReadingTime,
	}, nil
}
