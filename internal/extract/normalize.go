// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// normalizer is one pure repair pass over candidate text. Passes run in a
// fixed order; each is independently testable (prd002-extraction R3.1).
type normalizer struct {
	name  string
	apply func(string) string
}

// normalizers is the ordered repair chain applied by the normalize tier and
// by the fenced/bracket tiers on their second attempt.
var normalizers = []normalizer{
	{"collapse-newlines", collapseNewlines},
	{"collapse-whitespace", collapseWhitespace},
	{"strip-trailing-commas", stripTrailingCommas},
	{"repair-quotes", repairQuotes},
}

// Normalize applies the full repair chain to s.
//
// Blanket newline collapsing corrupts legitimate multi-paragraph string
// values; callers with such fields go through ExtractPreserving, which
// shields the field before this chain runs.
func Normalize(s string) string {
	for _, n := range normalizers {
		s = n.apply(s)
	}
	return s
}

// newlineReplacer collapses escaped newline sequences before literal ones so
// a backslash-n pair is not left as a dangling backslash.
var newlineReplacer = strings.NewReplacer(
	`\r\n`, " ",
	`\n`, " ",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// collapseNewlines replaces real and escaped newlines with a single space.
func collapseNewlines(s string) string {
	return newlineReplacer.Replace(s)
}

var whitespaceRunRE = regexp.MustCompile(`[ \t]{2,}`)

// collapseWhitespace squeezes runs of spaces and tabs to one space.
func collapseWhitespace(s string) string {
	return whitespaceRunRE.ReplaceAllString(s, " ")
}

var trailingCommaRE = regexp.MustCompile(`,\s*([}\]])`)

// stripTrailingCommas removes commas left dangling before a closing brace or
// bracket, the single most common defect in model-emitted JSON.
func stripTrailingCommas(s string) string {
	return trailingCommaRE.ReplaceAllString(s, "$1")
}

// repairQuotes fixes over-escaped quotes and backslashes: a doubled escape
// before a quote becomes a single escape, and a CSV-style doubled quote
// inside a value becomes an escaped quote. Legitimate empty strings survive.
func repairQuotes(s string) string {
	s = strings.ReplaceAll(s, `\\"`, `\"`)

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && i+1 < len(s) && s[i+1] == '"' && !emptyStringValue(s, i) {
			b.WriteString(`\"`)
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// emptyStringValue reports whether the doubled quote at i is a legitimate
// empty string: preceded by a key separator or container opener and followed
// by a value terminator or key separator.
func emptyStringValue(s string, i int) bool {
	p := i - 1
	for p >= 0 && (s[p] == ' ' || s[p] == '\t') {
		p--
	}
	if p < 0 || (s[p] != ':' && s[p] != ',' && s[p] != '[' && s[p] != '{') {
		return false
	}
	n := i + 2
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n < len(s) && (s[n] == ',' || s[n] == '}' || s[n] == ']' || s[n] == ':')
}
