// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "strings"

// placeholder stands in for the shielded field value while the surrounding
// JSON is repaired. It must survive every normalization pass unchanged.
const placeholder = "__CONTENT_PLACEHOLDER__"

// ExtractPreserving parses raw like Extract but shields the named string
// field first (prd002-extraction R4). The writing and revision stages use it
// for the "content" field, whose value is multi-paragraph Markdown with
// embedded newlines and quotes that the normalize tier would otherwise
// destroy. The field's literal value is swapped for a placeholder, the
// remainder goes through the normal cascade, and the original value is
// spliced back into the parsed object.
//
// When the field cannot be located raw falls through to the plain cascade.
func ExtractPreserving(raw, field string) (any, error) {
	start, end, ok := fieldSpan(raw, field)
	if !ok {
		return Extract(raw)
	}

	patched := raw[:start] + placeholder + raw[end:]
	v, err := Extract(patched)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return v, nil
	}
	obj[field] = unescapeField(raw[start:end])
	return obj, nil
}

// fieldSpan locates the literal value of `"field": "..."` in raw and returns
// the byte range between (not including) the value's quotes. The closing
// quote is the first one followed by a `}` or by a comma and the next key's
// opening quote; bare quotes inside prose do not match that pattern.
func fieldSpan(raw, field string) (start, end int, ok bool) {
	key := `"` + field + `"`
	k := strings.Index(raw, key)
	if k < 0 {
		return 0, 0, false
	}

	i := skipSpace(raw, k+len(key))
	if i >= len(raw) || raw[i] != ':' {
		return 0, 0, false
	}
	i = skipSpace(raw, i+1)
	if i >= len(raw) || raw[i] != '"' {
		return 0, 0, false
	}
	start = i + 1

	for j := start; j < len(raw); j++ {
		if raw[j] != '"' || raw[j-1] == '\\' {
			continue
		}
		if closesValue(raw, j) {
			return start, j, true
		}
	}
	return 0, 0, false
}

// closesValue reports whether the quote at index j plausibly ends a field
// value: followed (after whitespace) by a closing brace, or by a comma and
// another key.
func closesValue(raw string, j int) bool {
	t := skipSpace(raw, j+1)
	if t >= len(raw) {
		return false
	}
	switch raw[t] {
	case '}':
		return true
	case ',':
		t = skipSpace(raw, t+1)
		return t < len(raw) && raw[t] == '"'
	}
	return false
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// unescapeField decodes the JSON string escapes the model used consistently
// while leaving literal newlines and bare quotes untouched, so the caller
// receives the field exactly as written.
func unescapeField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case '"':
				b.WriteByte('"')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
