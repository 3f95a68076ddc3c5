// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the content-engine pipeline.
// Implements: prd003-research (SearchResult, ResearchRecord);
//
//	prd004-curation (ScoredResult, CuratedRecord);
//	prd005-writing (DraftRecord);
//	prd006-critique (CritiqueRecord, CritiqueIssue);
//	prd007-revision (RevisedRecord, ChangeLogEntry);
//	prd008-publishing (PublishedRecord).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Stage Records.
//
// Stage records are value types: each is assembled once by the stage that
// owns it and read-only afterwards. A later stage never writes back into an
// earlier record; it builds a new one. Every record carries the original
// Topic so any artifact can be traced to the run that produced it.
package types

// SearchResult is one unit of retrieved evidence from the web search
// collaborator. It flows from research into curation and writing.
type SearchResult struct {
	// Title is the result title as returned by the search backend.
	Title string `json:"title" yaml:"title"`

	// Snippet is the short excerpt the search backend returned for the page.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Link is the result URL.
	Link string `json:"link" yaml:"link"`
}

// ResearchRecord is the output of the research stage: raw evidence plus a
// model-written synthesis of it. Per prd003-research R3.1.
type ResearchRecord struct {
	Topic string `json:"topic" yaml:"topic"`

	// Summary is the model's synthesis of the retrieved evidence.
	Summary string `json:"summary" yaml:"summary"`

	// KeyPoints lists the angles the summary identified as worth covering.
	KeyPoints []string `json:"key_points" yaml:"key_points"`

	// Results holds the retrieved evidence in original retrieval order.
	Results []SearchResult `json:"results" yaml:"results"`
}

// ScoredResult pairs a search result with the relevance judgment the
// curation stage obtained for it. Per prd004-curation R2.2.
type ScoredResult struct {
	SearchResult `yaml:",inline"`

	// RelevanceScore is the model-assigned relevance on a 0-10 scale.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// Reason is the model's one-line justification for the score.
	Reason string `json:"reason" yaml:"reason"`
}

// CuratedRecord is the output of the curation stage. Selected holds only
// results at or above the relevance threshold, ordered by descending score
// with retrieval order breaking ties (prd004-curation R3.1, R3.2).
type CuratedRecord struct {
	Topic    string         `json:"topic" yaml:"topic"`
	Summary  string         `json:"summary" yaml:"summary"`
	Selected []ScoredResult `json:"selected" yaml:"selected"`
}

// DraftRecord is the output of the writing stage: a complete article draft.
// WordCount and ReadingTime are computed from Content, never taken from the
// model (prd005-writing R4.1, R4.2).
type DraftRecord struct {
	Topic string `json:"topic" yaml:"topic"`

	// Title is the article headline.
	Title string `json:"title" yaml:"title"`

	// Description is a one-to-two sentence summary used as frontmatter.
	Description string `json:"description" yaml:"description"`

	// Content is the full article body in Markdown.
	Content string `json:"content" yaml:"content"`

	// Tags lists topic labels for the article.
	Tags []string `json:"tags" yaml:"tags"`

	// KeyTakeaways lists the article's main points. May be empty.
	KeyTakeaways []string `json:"key_takeaways" yaml:"key_takeaways"`

	// Sources lists the URLs the draft drew on. May be empty.
	Sources []string `json:"sources" yaml:"sources"`

	// WordCount is the whitespace-delimited token count of Content.
	WordCount int `json:"word_count" yaml:"word_count"`

	// ReadingTime is ceil(WordCount/200) in minutes.
	ReadingTime int `json:"reading_time" yaml:"reading_time"`
}

// Severity ranks a critique issue for human triage. It never gates the
// pipeline automatically (prd006-critique R2.3).
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// CritiqueIssue is one structured finding from the critique stage.
type CritiqueIssue struct {
	// Type classifies the issue (e.g. "clarity", "accuracy", "structure").
	Type string `json:"type" yaml:"type"`

	// Severity is low, medium, or high.
	Severity Severity `json:"severity" yaml:"severity"`

	// Location identifies where in the draft the issue appears.
	Location string `json:"location" yaml:"location"`

	// Issue describes the problem.
	Issue string `json:"issue" yaml:"issue"`

	// Suggestion proposes a concrete fix.
	Suggestion string `json:"suggestion" yaml:"suggestion"`
}

// CritiqueRecord is the output of the critique stage. Draft carries the
// reviewed draft forward unchanged so revision can rewrite it.
type CritiqueRecord struct {
	Topic      string          `json:"topic" yaml:"topic"`
	Draft      DraftRecord     `json:"draft" yaml:"draft"`
	Assessment string          `json:"assessment" yaml:"assessment"`
	Strengths  []string        `json:"strengths" yaml:"strengths"`
	Issues     []CritiqueIssue `json:"issues" yaml:"issues"`
}

// ChangeLogEntry is an audit record of one content mutation made during
// revision. Entries accumulate; they are never removed (prd007-revision R2.4).
type ChangeLogEntry struct {
	// Type classifies the change (e.g. "rewrite", "addition", "deletion").
	Type string `json:"type" yaml:"type"`

	// Description explains what changed and why.
	Description string `json:"description" yaml:"description"`

	// Before is the original text, when the change is localized.
	Before string `json:"before,omitempty" yaml:"before,omitempty"`

	// After is the replacement text, when the change is localized.
	After string `json:"after,omitempty" yaml:"after,omitempty"`
}

// RevisedRecord is the output of the revision stage: the rewritten article
// plus the audit trail of planned changes.
type RevisedRecord struct {
	Topic       string           `json:"topic" yaml:"topic"`
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description" yaml:"description"`
	Content     string           `json:"content" yaml:"content"`
	Tags        []string         `json:"tags" yaml:"tags"`
	WordCount   int              `json:"word_count" yaml:"word_count"`
	ReadingTime int              `json:"reading_time" yaml:"reading_time"`
	ChangeLog   []ChangeLogEntry `json:"change_log" yaml:"change_log"`
}

// PublishedRecord is the final pipeline output. Location is the durable
// identifier the publication sink returned (prd008-publishing R3.3).
type PublishedRecord struct {
	Topic       string `json:"topic" yaml:"topic"`
	Title       string `json:"title" yaml:"title"`
	Slug        string `json:"slug" yaml:"slug"`
	Location    string `json:"location" yaml:"location"`
	Date        string `json:"date" yaml:"date"`
	WordCount   int    `json:"word_count" yaml:"word_count"`
	ReadingTime int    `json:"reading_time" yaml:"reading_time"`
}
