// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/article-engine/internal/scan"
	"github.com/pdiddy/article-engine/pkg/types"
)

// quotedValue matches a single-, double- or backtick-quoted literal with
// escapes. It contributes three capture groups, one per quote style.
const quotedValue = "(?:'((?:[^'\\\\]|\\\\.)*)'|\"((?:[^\"\\\\]|\\\\.)*)\"|`((?:[^`\\\\]|\\\\.)*)`)"

// groupsPerValue is the number of capture groups quotedValue contributes.
const groupsPerValue = 3

func pairPattern(first, second string) *regexp.Regexp {
	key := func(k string) string { return `['"]?` + k + `['"]?\s*:\s*` }
	return regexp.MustCompile(`\{\s*` + key(first) + quotedValue + `\s*,\s*` + key(second) + quotedValue)
}

var (
	titleHrefPattern = pairPattern("title", "href")
	hrefTitlePattern = pairPattern("href", "title")
)

// ExtractTOC recovers table-of-contents entries. Strategies are tried in
// fixed order and the first that finds anything wins:
//
//  1. {title, href} objects inside span
//  2. {href, title} objects inside span
//  3. {title, href} objects anywhere in source whose href starts with '#'
//
// The third strategy can pick up entries unrelated to any extracted
// heading; entries are not cross-checked against sections.
func ExtractTOC(span, source string) []types.TOCItem {
	if items := matchPairs(span, titleHrefPattern, false); len(items) > 0 {
		return items
	}
	if items := matchPairs(span, hrefTitlePattern, true); len(items) > 0 {
		return items
	}
	var anchored []types.TOCItem
	for _, item := range matchPairs(source, titleHrefPattern, false) {
		if strings.HasPrefix(item.Href, "#") {
			anchored = append(anchored, item)
		}
	}
	return anchored
}

// matchPairs returns every pair matched by re in text order. hrefFirst
// tells which capture holds the href.
func matchPairs(text string, re *regexp.Regexp, hrefFirst bool) []types.TOCItem {
	if text == "" {
		return nil
	}
	var items []types.TOCItem
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		first := group(text, m, 1)
		second := group(text, m, 1+groupsPerValue)
		item := types.TOCItem{Title: first, Href: second}
		if hrefFirst {
			item = types.TOCItem{Href: first, Title: second}
		}
		items = append(items, item)
	}
	return items
}

// group returns the unescaped value of the quoted literal whose capture
// groups start at g, one group per quote style.
func group(text string, m []int, g int) string {
	for i := g; i < g+groupsPerValue; i++ {
		if start, end := m[2*i], m[2*i+1]; start >= 0 {
			return scan.Unescape(text[start:end])
		}
	}
	return ""
}
