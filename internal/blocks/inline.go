// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package blocks

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/article-engine/internal/parse"
	"github.com/pdiddy/article-engine/pkg/types"
)

// style is the emphasis inherited from enclosing tags.
type style struct {
	bold, italic bool
}

// markup matches what the HTML tokenizer would treat as a tag or comment.
// Any other '<' is literal text.
var markup = regexp.MustCompile(`<(?:/?[A-Za-z][A-Za-z0-9-]*(?:\s[^<>]*)?/?>|!--[\s\S]*?-->)`)

// Inline converts a fragment with inline markup into styled text runs.
// <b>/<strong> set bold and <i>/<em> set italic. An anchor becomes one run
// holding its visible text, bold or italic when such a tag is nested
// inside it; the link target is dropped. Any other tag contributes its
// children. Entities are decoded. When the runs do not carry every visible
// character of the fragment, the whole fragment is returned as a single
// plain run, so text is never lost.
func Inline(fragment string) []types.TextRun {
	if fragment == "" {
		return nil
	}
	escaped := escapeStray(fragment)
	body, err := parseFragment(escaped)
	if err != nil {
		return []types.TextRun{{Text: fragment}}
	}

	var runs []types.TextRun
	body.Contents().Each(func(_ int, s *goquery.Selection) {
		runs = appendRuns(runs, s, style{})
	})
	if len(runs) == 0 || !sameText(runs, visibleText(escaped)) {
		return []types.TextRun{{Text: fragment}}
	}
	return runs
}

// escapeStray replaces every '<' that does not open a tag or comment with
// "&lt;" so comparisons like "a<b" stay text.
func escapeStray(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return fragment
	}
	var b strings.Builder
	last := 0
	for _, m := range markup.FindAllStringIndex(fragment, -1) {
		b.WriteString(strings.ReplaceAll(fragment[last:m[0]], "<", "&lt;"))
		b.WriteString(fragment[m[0]:m[1]])
		last = m[1]
	}
	b.WriteString(strings.ReplaceAll(fragment[last:], "<", "&lt;"))
	return b.String()
}

// parseFragment parses markup in a <body> context. Head-only elements such
// as <title> stay in place instead of moving to a synthesized <head>.
func parseFragment(markupText string) (*goquery.Selection, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markupText), ctx)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(root).Selection, nil
}

// visibleText is the fragment with tags and comments removed and entities
// decoded.
func visibleText(escaped string) string {
	return html.UnescapeString(markup.ReplaceAllString(escaped, ""))
}

// sameText reports whether runs hold exactly the non-space characters of
// want, in order.
func sameText(runs []types.TextRun, want string) bool {
	var got strings.Builder
	for _, r := range runs {
		got.WriteString(r.Text)
	}
	return stripSpace(got.String()) == stripSpace(want)
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func appendRuns(runs []types.TextRun, s *goquery.Selection, st style) []types.TextRun {
	switch goquery.NodeName(s) {
	case "#text":
		return appendRun(runs, s.Text(), st)
	case "#comment":
		return runs
	case "br":
		return appendRun(runs, "\n", st)
	case "a":
		text := s.Text()
		bold := st.bold || s.Find("b, strong").Length() > 0
		italic := st.italic || s.Find("i, em").Length() > 0
		return appendRun(runs, text, style{bold: bold, italic: italic})
	case "b", "strong":
		st.bold = true
	case "i", "em":
		st.italic = true
	}

	s.Contents().Each(func(_ int, child *goquery.Selection) {
		runs = appendRuns(runs, child, st)
	})
	return runs
}

func appendRun(runs []types.TextRun, text string, st style) []types.TextRun {
	if text == "" {
		return runs
	}
	return append(runs, types.TextRun{Text: text, Bold: st.bold, Italic: st.italic})
}

// Bold returns a copy of runs with every run set bold.
func Bold(runs []types.TextRun) []types.TextRun {
	out := make([]types.TextRun, len(runs))
	for i, r := range runs {
		r.Bold = true
		out[i] = r
	}
	return out
}

// PlainText strips all markup from an HTML fragment, collapses whitespace,
// and cuts the result to at most maxRunes runes.
func PlainText(fragment string, maxRunes int) string {
	text := fragment
	if body, err := parseFragment(escapeStray(fragment)); err == nil {
		text = body.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	return parse.Truncate(text, maxRunes)
}
