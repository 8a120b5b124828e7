// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"regexp"
	"strings"
)

// Parasites seen in exported address columns. Removed literally, in order.
var noiseTokens = []string{
	"Internal Postal Box",
	"Bte",
	"Case postale",
	"(Biz)",
}

// The country is never sent to the providers (it is forced through the
// countrycodes parameter), so a trailing mention is stripped.
var countrySuffixRe = regexp.MustCompile(`(?i),?\s*(belgique|belgium)\s*$`)

// Road-type abbreviations, applied on the lowercased string. The word
// boundary sits before the optional dot so that "av." expands to "avenue"
// without leaving the dot behind.
var abbreviations = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\bchem\b\.?`), "chemin"},
	{regexp.MustCompile(`\bav\b\.?`), "avenue"},
	{regexp.MustCompile(`\bbd\b`), "boulevard"},
	{regexp.MustCompile(`\brte\b`), "route"},
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize cleans a raw address: removes noise tokens, strips a trailing
// country mention, lowercases, expands road-type abbreviations and collapses
// whitespace. The apostrophe and capitalization of the proper noun
// "Grand'Route" are preserved. The function is pure and idempotent; an empty
// or blank input yields the empty string, which the resolver treats as
// unresolvable rather than as an error.
func Normalize(raw string) string {
	s := raw
	for _, tok := range noiseTokens {
		s = strings.ReplaceAll(s, tok, "")
	}

	// Legacy box-number artifact: "B 12" prefixes left by the noise removal.
	s = strings.TrimSpace(strings.ReplaceAll(s, "B ", " "))

	s = strings.TrimSpace(countrySuffixRe.ReplaceAllString(s, ""))

	s = strings.ToLower(s)
	for _, a := range abbreviations {
		s = a.re.ReplaceAllString(s, a.repl)
	}

	s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))

	// The only proper noun whose casing matters downstream.
	return strings.ReplaceAll(s, "grand'route", "Grand'Route")
}
