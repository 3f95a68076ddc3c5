// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prose computes deterministic text metrics for article content.
// Implements: prd005-writing (R4), prd008-publishing (R2.1).
//
// Word count and reading time are always derived from the final text, never
// taken from a model-reported value.
package prose

import (
	"strings"
	"unicode"
)

// wordsPerMinute is the reading speed assumed for reading time estimates.
const wordsPerMinute = 200

// WordCount returns the number of whitespace-delimited tokens in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// ReadingTime returns the estimated reading time in whole minutes for a
// text of words tokens, rounding up. Zero words reads in zero minutes.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// maxSlugLen bounds slug length so filenames stay manageable.
const maxSlugLen = 80

// Slugify lowercases title and reduces it to hyphen-separated alphanumeric
// runs, suitable for a filename or URL path segment.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		slug = "untitled"
	}
	return slug
}
