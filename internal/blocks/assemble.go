// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package blocks folds a ParsedArticle into the flat block sequence sent
// to the content store, converting inline markup to styled text runs.
package blocks

import (
	"strings"

	"github.com/pdiddy/article-engine/internal/parse"
	"github.com/pdiddy/article-engine/pkg/types"
)

// DefaultMaxFallbackLength bounds the raw fallback paragraph in runes.
const DefaultMaxFallbackLength = 2000

// Assembler converts ParsedArticles to blocks. It holds no mutable state.
type Assembler struct {
	separator   string
	maxFallback int
}

// NewAssembler returns an Assembler that splits text fields on separator.
// An empty separator uses the parser default.
func NewAssembler(separator string) *Assembler {
	if separator == "" {
		separator = parse.DefaultParagraphSeparator
	}
	return &Assembler{separator: separator, maxFallback: DefaultMaxFallbackLength}
}

// Assemble converts art with the default separator.
func Assemble(art *types.ParsedArticle) []types.Block {
	return NewAssembler("").Assemble(art)
}

// Assemble returns the blocks of art in reading order: intro paragraphs,
// then per section its heading, content, lists, additional content and
// subsections, then the conclusion. When nothing structured produces a
// block, a single plain paragraph is built from RawHTML.
func (a *Assembler) Assemble(art *types.ParsedArticle) []types.Block {
	var out []types.Block
	out = a.paragraphs(out, art.IntroText)

	for _, sec := range art.ContentSections {
		out = a.heading(out, 2, sec.Heading)
		out = a.paragraphs(out, sec.Content)
		out = a.lists(out, sec.Lists)
		out = a.paragraphs(out, sec.AdditionalContent)

		for _, sub := range sec.Subsections {
			out = a.heading(out, 3, sub.Subheading)
			out = a.paragraphs(out, sub.Content)
			out = a.lists(out, sub.Lists)
			out = a.paragraphs(out, sub.AdditionalContent)
		}
	}

	out = a.paragraphs(out, art.Conclusion)

	if len(out) == 0 && art.RawHTML != "" {
		if text := PlainText(art.RawHTML, a.maxFallback); text != "" {
			out = append(out, types.NewParagraph([]types.TextRun{{Text: text}}))
		}
	}
	return out
}

func (a *Assembler) heading(out []types.Block, level int, text string) []types.Block {
	text = strings.TrimSpace(text)
	if text == "" {
		return out
	}
	return append(out, types.NewHeading(level, Inline(text)))
}

func (a *Assembler) paragraphs(out []types.Block, text string) []types.Block {
	for _, seg := range parse.Paragraphs(text, a.separator) {
		out = append(out, types.NewParagraph(Inline(seg)))
	}
	return out
}

// lists emits each list, preceded by a bold label paragraph when titled.
func (a *Assembler) lists(out []types.Block, lists []types.ContentList) []types.Block {
	for _, l := range lists {
		var items [][]types.TextRun
		for _, item := range l.Items {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, Inline(item))
			}
		}
		if len(items) == 0 {
			continue
		}
		if title := strings.TrimSpace(l.Title); title != "" {
			out = append(out, types.NewParagraph(Bold(Inline(title))))
		}
		out = append(out, types.NewList(l.Ordered, items))
	}
	return out
}
