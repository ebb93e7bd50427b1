// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// region delimits a content block in a template. For tag regions the
// opening marker is a tag prefix and content starts after its '>'.
type region struct {
	open, close string
	tag         bool
}

// rawRegions are tried in order; the first one present wins.
var rawRegions = []region{
	{open: "<!-- article-content -->", close: "<!-- /article-content -->"},
	{open: "<main", close: "</main>", tag: true},
	{open: "<article", close: "</article>", tag: true},
	{open: "<body", close: "</body>", tag: true},
}

// directivePatterns strip template directives and comments that survive
// in the region: {{ }}, {% %}, {# #}, <% %>, <? ?>, Svelte-style block tags
// and HTML comments.
var directivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)\{\{.*?\}\}`),
	regexp.MustCompile(`(?s)\{%.*?%\}`),
	regexp.MustCompile(`(?s)\{#.*?#\}`),
	regexp.MustCompile(`(?s)<%.*?%>`),
	regexp.MustCompile(`(?s)<\?.*?\?>`),
	regexp.MustCompile(`\{[#/:@][^{}]*\}`),
	regexp.MustCompile(`(?s)<!--.*?-->`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// RawContent returns the first designated content region of text with
// template directives removed, whitespace collapsed, and the result cut to
// at most maxRunes runes. It returns "" when no region is present.
func RawContent(text string, maxRunes int) string {
	body, ok := findRegion(text)
	if !ok {
		return ""
	}
	for _, re := range directivePatterns {
		body = re.ReplaceAllString(body, " ")
	}
	body = strings.TrimSpace(whitespaceRun.ReplaceAllString(body, " "))
	return Truncate(body, maxRunes)
}

func findRegion(text string) (string, bool) {
	for _, r := range rawRegions {
		if start, ok := regionStart(text, r); ok {
			end := strings.Index(text[start:], r.close)
			if end < 0 {
				return text[start:], true
			}
			return text[start : start+end], true
		}
	}
	return "", false
}

// regionStart returns the offset just past the first opening marker of r
// in text. For tag regions an occurrence that is only a prefix of a longer
// tag name ("<mainnav") is skipped and the search continues after it.
func regionStart(text string, r region) (int, bool) {
	from := 0
	for {
		i := strings.Index(text[from:], r.open)
		if i < 0 {
			return 0, false
		}
		start := from + i + len(r.open)
		if !r.tag {
			return start, true
		}
		if start < len(text) && isIdent(text[start]) {
			from = start
			continue
		}
		gt := strings.IndexByte(text[start:], '>')
		if gt < 0 {
			return 0, false
		}
		return start + gt + 1, true
	}
}

// Truncate cuts s to at most n runes without splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
