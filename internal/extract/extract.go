// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract recovers structured data from generative-model text.
// Implements: prd002-extraction (R1-R5);
//
//	docs/ARCHITECTURE § Structured Extraction.
//
// A generative backend gives no structural guarantee over its output: valid
// JSON may arrive wrapped in prose, fenced in Markdown, or damaged by
// trailing commas, doubled quotes, and literal newlines inside string
// fields. Extract runs an ordered cascade of recovery strategies, least to
// most destructive, so well-formed output is never needlessly mangled. The
// first strategy that yields a parse wins.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Strategy names, in cascade order. Exposed for diagnostics and tests.
const (
	StrategyDirect    = "direct"
	StrategyFenced    = "fenced"
	StrategyBracket   = "bracket"
	StrategyNormalize = "normalize"
)

// Error reports that every recovery strategy was exhausted without a parse.
// It carries the original raw text and the ordered list of strategies tried
// so the failure can be logged with full context. Extraction failures are
// never swallowed into a default value (prd002-extraction R5.2).
type Error struct {
	Raw       string
	Attempted []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("no strategy recovered structured data (tried %s) from %d bytes of model output",
		strings.Join(e.Attempted, ", "), len(e.Raw))
}

// strategy is one tier of the recovery cascade: a pure function from raw
// text to a parsed value. Each tier is independently testable (R1.3).
type strategy struct {
	name  string
	apply func(raw string) (any, error)
}

// strategies is the fixed cascade order (R1.1). Direct parse first so
// well-formed output passes through byte-identical; destructive
// normalization last.
var strategies = []strategy{
	{StrategyDirect, parseDirect},
	{StrategyFenced, parseFenced},
	{StrategyBracket, parseBracket},
	{StrategyNormalize, parseNormalized},
}

// Extract parses raw model output into a JSON object or array, trying each
// recovery strategy in order. On success it returns the parsed value
// (map[string]any or []any). After exhausting the cascade it returns *Error
// listing every strategy attempted.
func Extract(raw string) (any, error) {
	attempted := make([]string, 0, len(strategies))
	for _, s := range strategies {
		attempted = append(attempted, s.name)
		if v, err := s.apply(raw); err == nil {
			return v, nil
		}
	}
	return nil, &Error{Raw: raw, Attempted: attempted}
}

// parseDirect attempts to parse the whole string as JSON verbatim (R2.1).
func parseDirect(raw string) (any, error) {
	return decodeValue(raw)
}

// parseFenced locates the first Markdown code fence (optionally tagged
// "json") and parses its interior, verbatim first, then normalized (R2.2).
func parseFenced(raw string) (any, error) {
	inner, ok := fencedBlock(raw)
	if !ok {
		return nil, fmt.Errorf("no fenced block")
	}
	if v, err := decodeValue(inner); err == nil {
		return v, nil
	}
	return decodeValue(Normalize(inner))
}

// fencedBlock returns the interior of the first ``` fence in raw.
func fencedBlock(raw string) (string, bool) {
	start := strings.Index(raw, "```")
	if start < 0 {
		return "", false
	}
	rest := raw[start+3:]
	// Skip an optional language tag up to the end of the fence line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		tag := strings.TrimSpace(rest[:nl])
		if tag == "" || strings.EqualFold(tag, "json") {
			rest = rest[nl+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// parseBracket locates the first balanced top-level {...} or [...] span in
// the text and parses it, verbatim first, then normalized (R2.3). String
// interiors are skipped while balancing so braces inside values do not
// terminate the span early.
func parseBracket(raw string) (any, error) {
	span, ok := bracketSpan(raw)
	if !ok {
		return nil, fmt.Errorf("no bracketed span")
	}
	if v, err := decodeValue(span); err == nil {
		return v, nil
	}
	return decodeValue(Normalize(span))
}

// bracketSpan returns the first balanced brace- or bracket-delimited span.
func bracketSpan(raw string) (string, bool) {
	start := strings.IndexAny(raw, "{[")
	if start < 0 {
		return "", false
	}
	open := raw[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch c {
			case '\\':
				i++ // skip the escaped byte
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

// parseNormalized runs the full normalization chain over the whole input and
// re-parses (R2.4). This is the most destructive tier and therefore last.
func parseNormalized(raw string) (any, error) {
	return decodeValue(Normalize(raw))
}

// decodeValue parses s as JSON and accepts only a top-level object or array.
// Model output is always requested in one of those two shapes; a bare scalar
// means the model ignored the instruction.
func decodeValue(s string) (any, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("empty candidate")
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, fmt.Errorf("candidate is not an object or array")
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, err
	}
	return v, nil
}
