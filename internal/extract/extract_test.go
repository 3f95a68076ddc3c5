// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

// --- direct tier ---

func TestExtractValidJSONUsesDirectTier(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"object", `{"title":"Go Pipelines","score":7.5,"published":false}`},
		{"array", `[{"title":"a"},{"title":"b"}]`},
		{"nested", `{"outer":{"inner":[1,2,3]},"s":"text"}`},
		{"leading whitespace", "\n  {\"key\":\"value\"}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The direct tier alone must handle it.
			direct, err := parseDirect(tt.raw)
			if err != nil {
				t.Fatalf("parseDirect: %v", err)
			}

			got, err := Extract(tt.raw)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}

			var want any
			if err := json.Unmarshal([]byte(tt.raw), &want); err != nil {
				t.Fatalf("reference parse: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Extract = %#v, want %#v", got, want)
			}
			if !reflect.DeepEqual(got, direct) {
				t.Errorf("Extract diverged from the direct tier: %#v vs %#v", got, direct)
			}
		})
	}
}

func TestExtractRejectsScalars(t *testing.T) {
	for _, raw := range []string{`"just a string"`, `42`, `true`} {
		if _, err := Extract(raw); err == nil {
			t.Errorf("Extract(%q) succeeded, want failure for non-container JSON", raw)
		}
	}
}

// --- fenced tier ---

func TestExtractFencedBlock(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			"json tag with prose",
			"Here is the result you asked for:\n```json\n{\"title\":\"Go\",\"score\":9}\n```\nLet me know if you need changes.",
		},
		{
			"untagged fence",
			"```\n{\"title\":\"Go\",\"score\":9}\n```",
		},
		{
			"fenced with trailing comma",
			"```json\n{\"title\":\"Go\",\"score\":9,}\n```",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.raw)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			obj, ok := got.(map[string]any)
			if !ok {
				t.Fatalf("Extract returned %T, want object", got)
			}
			if obj["title"] != "Go" {
				t.Errorf("title = %v, want Go", obj["title"])
			}
			if obj["score"] != float64(9) {
				t.Errorf("score = %v, want 9", obj["score"])
			}
		})
	}
}

// --- bracket tier ---

func TestExtractBracketSpanInProse(t *testing.T) {
	raw := `Sure! The analysis gives {"verdict": "keep", "braces": "a { inside a string }"} which should help.`
	got, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	obj := got.(map[string]any)
	if obj["verdict"] != "keep" {
		t.Errorf("verdict = %v, want keep", obj["verdict"])
	}
	if obj["braces"] != "a { inside a string }" {
		t.Errorf("braces = %v; string interior was not preserved", obj["braces"])
	}
}

func TestExtractBracketArray(t *testing.T) {
	raw := "The scores are: [ {\"index\": 0, \"relevance_score\": 9}, {\"index\": 1, \"relevance_score\": 6} ] as requested."
	got, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	arr, ok := got.([]any)
	if !ok || len(arr) != 2 {
		t.Fatalf("Extract = %#v, want 2-element array", got)
	}
}

// --- normalize tier ---

func TestExtractNormalizedInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		key  string
		want any
	}{
		{
			"trailing commas",
			"{\"title\": \"Go\", \"tags\": [\"a\", \"b\",],}",
			"title", "Go",
		},
		{
			"newline inside value",
			"{\"summary\": \"first\nsecond\"}",
			"summary", "first second",
		},
		{
			"doubled quotes",
			`{"quote": "He said ""stop"" twice"}`,
			"quote", `He said "stop" twice`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.raw)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			obj := got.(map[string]any)
			if obj[tt.key] != tt.want {
				t.Errorf("%s = %#v, want %#v", tt.key, obj[tt.key], tt.want)
			}
		})
	}
}

// --- exhaustion ---

func TestExtractExhaustsAllStrategies(t *testing.T) {
	_, err := Extract("I am sorry, I cannot produce an article about that.")
	if err == nil {
		t.Fatal("Extract succeeded on prose with no JSON span")
	}

	var exErr *Error
	if !errors.As(err, &exErr) {
		t.Fatalf("error type = %T, want *extract.Error", err)
	}

	want := []string{StrategyDirect, StrategyFenced, StrategyBracket, StrategyNormalize}
	if !reflect.DeepEqual(exErr.Attempted, want) {
		t.Errorf("Attempted = %v, want %v", exErr.Attempted, want)
	}
	if exErr.Raw == "" {
		t.Error("Error.Raw is empty, want original text for diagnostics")
	}
}

// --- idempotence ---

func TestExtractRoundTripIdempotence(t *testing.T) {
	messy := "```json\n{\"title\": \"Go\", \"tags\": [\"a\", \"b\",], }\n```"

	first, err := Extract(messy)
	if err != nil {
		t.Fatalf("first Extract: %v", err)
	}

	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}

	// The reserialized form is clean JSON: the direct tier must accept it
	// and the value must survive unchanged.
	second, err := parseDirect(string(encoded))
	if err != nil {
		t.Fatalf("parseDirect on round-tripped output: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("round trip changed value: %#v vs %#v", first, second)
	}
}
