// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse extracts a ParsedArticle from template source text.
//
// Two grammars are recognized. The named form is an object literal bound to
// the named marker (const articleData = { title: '...', ... }); the
// positional form is a call whose arguments are addressed by position
// (renderArticle('Title', 'img.png', ...)). Sources matching neither fall
// back to a bounded copy of a marked content region.
//
// Parsing is a pure function of the source: no I/O, no shared state, and no
// error return. Malformed fragments leave their fields empty and add a
// warning to the result.
package parse

import (
	"fmt"
	"strings"

	"github.com/pdiddy/article-engine/internal/scan"
	"github.com/pdiddy/article-engine/pkg/types"
)

const (
	// DefaultNamedMarker introduces the keyed object form.
	DefaultNamedMarker = "articleData"
	// DefaultPositionalMarker introduces the positional call form.
	DefaultPositionalMarker = "renderArticle("
	// DefaultParagraphSeparator splits text fields into paragraphs.
	DefaultParagraphSeparator = "|"
	// DefaultMaxRawLength bounds the raw fallback content in runes.
	DefaultMaxRawLength = 5000
)

// Parser holds the grammar markers. A Parser has no mutable state and is
// safe for concurrent use.
type Parser struct {
	namedMarker      string
	positionalMarker string
	separator        string
	maxRawLength     int
}

// New returns a Parser for cfg, filling zero values with the defaults.
func New(cfg types.ParseConfig) *Parser {
	p := &Parser{
		namedMarker:      cfg.NamedMarker,
		positionalMarker: cfg.PositionalMarker,
		separator:        cfg.ParagraphSeparator,
		maxRawLength:     cfg.MaxRawLength,
	}
	if p.namedMarker == "" {
		p.namedMarker = DefaultNamedMarker
	}
	if p.positionalMarker == "" {
		p.positionalMarker = DefaultPositionalMarker
	}
	if p.separator == "" {
		p.separator = DefaultParagraphSeparator
	}
	if p.maxRawLength <= 0 {
		p.maxRawLength = DefaultMaxRawLength
	}
	return p
}

// Separator returns the paragraph separator used by this parser.
func (p *Parser) Separator() string {
	return p.separator
}

// Parse extracts src with the default markers.
func Parse(src types.ArticleSource) *types.ParsedArticle {
	return New(types.ParseConfig{}).Parse(src)
}

// Parse extracts a ParsedArticle from src. The named form is tried first,
// then the positional form; when neither marker is present, or a marker
// is present but yields no content, the raw fallback region fills RawHTML.
func (p *Parser) Parse(src types.ArticleSource) *types.ParsedArticle {
	art := &types.ParsedArticle{
		Category: src.Category,
		Slug:     src.Slug,
		Grammar:  p.Detect(src.Text),
	}
	w := &warnings{}

	switch art.Grammar {
	case types.GrammarNamed:
		obj := p.namedObject(src.Text, w)
		fill(art, obj, src.Text, w)
	case types.GrammarPositional:
		obj := p.positionalObject(src.Text, w)
		fill(art, obj, src.Text, w)
	}

	if art.MetaTitle == "" {
		art.MetaTitle = scan.FindString(src.Text, "meta_title")
	}
	if art.MetaDescription == "" {
		art.MetaDescription = scan.FindString(src.Text, "meta_description")
	}

	if !art.IsStructured() {
		art.RawHTML = RawContent(src.Text, p.maxRawLength)
	}

	art.Warnings = w.list
	return art
}

// Detect reports which grammar Parse will use for text.
func (p *Parser) Detect(text string) types.Grammar {
	if _, ok := p.namedOpen(text); ok {
		return types.GrammarNamed
	}
	if _, ok := p.positionalOpen(text); ok {
		return types.GrammarPositional
	}
	return types.GrammarRaw
}

// namedOpen returns the offset of the '{' that opens the named object.
func (p *Parser) namedOpen(text string) (int, bool) {
	for from := 0; from < len(text); {
		idx := strings.Index(text[from:], p.namedMarker)
		if idx < 0 {
			return -1, false
		}
		start := from + idx
		from = start + len(p.namedMarker)
		if start > 0 && isIdent(text[start-1]) {
			continue
		}
		if from < len(text) && isIdent(text[from]) {
			continue
		}
		if open := scan.IndexAfter(text, from, '{'); open >= 0 {
			return open, true
		}
		return -1, false
	}
	return -1, false
}

// positionalOpen returns the offset of the '(' that opens the call.
func (p *Parser) positionalOpen(text string) (int, bool) {
	idx := strings.Index(text, p.positionalMarker)
	if idx < 0 {
		return -1, false
	}
	if strings.HasSuffix(p.positionalMarker, "(") {
		return idx + len(p.positionalMarker) - 1, true
	}
	open := scan.IndexAfter(text, idx+len(p.positionalMarker), '(')
	return open, open >= 0
}

// namedObject returns the top-level members of the named object. An
// unterminated object is read up to end of input.
func (p *Parser) namedObject(text string, w *warnings) scan.Object {
	open, _ := p.namedOpen(text)
	span, err := scan.Balanced(text, open)
	if err != nil {
		w.add("named object: %v; reading to end of input", err)
		obj, _ := scan.ParseMembers(text[open+1:])
		return obj
	}
	obj, err := scan.ParseObject(span)
	if err != nil {
		w.add("named object: %v", err)
	}
	return obj
}

// fill copies the article-level fields of obj into art. obj comes from
// either grammar; the positional form is mapped onto the same keys first.
func fill(art *types.ParsedArticle, obj scan.Object, source string, w *warnings) {
	art.Title = obj.String("title")
	art.MetaTitle = obj.String("meta_title")
	art.MetaDescription = obj.String("meta_description")
	art.IntroText = obj.String("intro_text")
	art.Conclusion = obj.String("conclusion")

	if img := imageField(obj); img != nil {
		art.ImagePath = img.Src
		art.ImageAlt = img.Alt
	}

	if body, ok := obj.Array("content_sections"); ok {
		art.ContentSections = extractSections(body, w)
	}

	tocSpan, _ := obj.Array("toc_items")
	art.TOCItems = ExtractTOC(tocSpan, source)
}

// imageField reads an image given either as a path string with a sibling
// image_alt, or as an {src, alt} object.
func imageField(obj scan.Object) *types.Image {
	v, ok := obj.Get("image")
	if !ok {
		return nil
	}
	img := &types.Image{Alt: obj.String("image_alt")}
	switch v.Kind {
	case scan.KindString:
		img.Src = v.Text()
	case scan.KindObject:
		inner, _ := scan.ParseObject(v.Raw)
		img.Src = inner.FirstString("src", "url", "path")
		if alt := inner.String("alt"); alt != "" {
			img.Alt = alt
		}
	}
	if img.Src == "" && img.Alt == "" {
		return nil
	}
	return img
}

func isIdent(c byte) bool {
	return c == '_' || c == '$' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// warnings collects malformed-source notes in the order they occur.
type warnings struct {
	list []string
}

func (w *warnings) add(format string, args ...any) {
	w.list = append(w.list, fmt.Sprintf(format, args...))
}

// Paragraphs splits text on sep and returns the trimmed, non-blank segments.
func Paragraphs(text, sep string) []string {
	if sep == "" {
		sep = DefaultParagraphSeparator
	}
	var out []string
	for _, seg := range strings.Split(text, sep) {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
