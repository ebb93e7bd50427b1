// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-engine/internal/scan"
	"github.com/pdiddy/article-engine/pkg/types"
)

const namedSource = `---
import Layout from '../layouts/Article.astro';

const articleData = {
  title: 'Choosing a Router',
  meta_title: 'Router guide',
  meta_description: 'How to pick a home router',
  image: '/images/router.jpg',
  image_alt: 'A router on a desk',
  intro_text: 'Routers matter.|They don\'t all perform alike.|',
  toc_items: [
    { title: 'Speed', href: '#speed' },
    { title: 'Range', href: '#range' },
  ],
  content_sections: [
    {
      id: 'speed',
      heading: 'Speed',
      content: 'Look at <strong>throughput</strong>.',
      lists: [
        { title: 'Check', items: ['Wi-Fi 6', 'Gigabit ports'], ordered: true },
      ],
      additional_content: 'Benchmarks vary.',
      subsections: [
        { subheading: 'Bands', content: 'Dual band is fine.' },
        { heading: 'Mesh', items: ['Nodes', 'Backhaul'] },
      ],
    },
    {
      id: 'range',
      heading: 'Range',
      content: 'Walls absorb signal.',
      image: { src: '/images/range.png', alt: 'Coverage map' },
    },
    { },
  ],
  conclusion: 'Buy for your house, not the box.',
};
---
<Layout {...articleData} />
`

// --- dispatch ---

func TestDetect(t *testing.T) {
	p := New(types.ParseConfig{})
	tests := []struct {
		name string
		text string
		want types.Grammar
	}{
		{"named", `const articleData = { title: 'T' }`, types.GrammarNamed},
		{"positional", `{renderArticle('T', 'img.png')}`, types.GrammarPositional},
		{"both prefers named", `const articleData = {}; renderArticle(articleData)`, types.GrammarNamed},
		{"marker inside identifier", `const myarticleData = 1; <main>x</main>`, types.GrammarRaw},
		{"named marker without object", `articleData; renderArticle('T')`, types.GrammarPositional},
		{"neither", `<main>hello</main>`, types.GrammarRaw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Detect(tt.text))
		})
	}
}

func TestNew_CustomMarkers(t *testing.T) {
	p := New(types.ParseConfig{NamedMarker: "pageData", PositionalMarker: "renderPage", ParagraphSeparator: "\n\n"})
	assert.Equal(t, types.GrammarNamed, p.Detect(`const pageData = {title: 'T'}`))
	assert.Equal(t, types.GrammarPositional, p.Detect(`renderPage ('T')`))
	assert.Equal(t, types.GrammarRaw, p.Detect(`const articleData = {title: 'T'}`))
	assert.Equal(t, "\n\n", p.Separator())
}

// --- named form ---

func TestParse_NamedForm(t *testing.T) {
	art := Parse(types.ArticleSource{Category: "guides", Slug: "choosing-a-router", Text: namedSource})

	assert.Equal(t, "guides", art.Category)
	assert.Equal(t, "choosing-a-router", art.Slug)
	assert.Equal(t, types.GrammarNamed, art.Grammar)
	assert.Equal(t, "Choosing a Router", art.Title)
	assert.Equal(t, "Router guide", art.MetaTitle)
	assert.Equal(t, "How to pick a home router", art.MetaDescription)
	assert.Equal(t, "/images/router.jpg", art.ImagePath)
	assert.Equal(t, "A router on a desk", art.ImageAlt)
	assert.Equal(t, "Routers matter.|They don't all perform alike.|", art.IntroText)
	assert.Equal(t, "Buy for your house, not the box.", art.Conclusion)
	assert.Empty(t, art.RawHTML)
	assert.Empty(t, art.Warnings)

	assert.Equal(t, []types.TOCItem{
		{Href: "#speed", Title: "Speed"},
		{Href: "#range", Title: "Range"},
	}, art.TOCItems)

	require.Len(t, art.ContentSections, 2, "the empty {} entry is dropped")

	speed := art.ContentSections[0]
	assert.Equal(t, "speed", speed.ID)
	assert.Equal(t, "Speed", speed.Heading)
	assert.Equal(t, "Look at <strong>throughput</strong>.", speed.Content)
	assert.Equal(t, "Benchmarks vary.", speed.AdditionalContent)
	assert.Equal(t, []types.ContentList{
		{Title: "Check", Ordered: true, Items: []string{"Wi-Fi 6", "Gigabit ports"}},
	}, speed.Lists)

	require.Len(t, speed.Subsections, 2)
	assert.Equal(t, "Bands", speed.Subsections[0].Subheading)
	assert.Equal(t, "Dual band is fine.", speed.Subsections[0].Content)
	assert.Equal(t, "Mesh", speed.Subsections[1].Subheading, "heading is accepted for subsections")
	assert.Equal(t, []types.ContentList{{Items: []string{"Nodes", "Backhaul"}}}, speed.Subsections[1].Lists)

	rng := art.ContentSections[1]
	assert.Equal(t, &types.Image{Src: "/images/range.png", Alt: "Coverage map"}, rng.Image)
	assert.Empty(t, rng.Lists)
}

func TestParse_EscapeFidelity(t *testing.T) {
	art := Parse(types.ArticleSource{Text: `const articleData = { title: 'It\'s "fine"', intro_text: 'Line one\nLine two' }`})
	assert.Equal(t, `It's "fine"`, art.Title)
	assert.Equal(t, "Line one\nLine two", art.IntroText)
}

func TestParse_QuotedKeys(t *testing.T) {
	art := Parse(types.ArticleSource{Text: `articleData = { 'title' : 'Quoted', "conclusion": "Done" }`})
	assert.Equal(t, "Quoted", art.Title)
	assert.Equal(t, "Done", art.Conclusion)
}

func TestParse_Deterministic(t *testing.T) {
	src := types.ArticleSource{Category: "guides", Slug: "router", Text: namedSource}
	first := Parse(src)
	second := Parse(src)
	assert.Equal(t, first, second)
}

// --- positional form ---

func TestParse_PositionalForm(t *testing.T) {
	text := `<script>
	renderArticle(
		'Wiring a Switch',
		'/img/switch.png',
		'A light switch',
		'Turn off power.|Test the wire.',
		[
			{ heading: 'Tools', content: 'You need pliers.', items: ['Pliers', 'Tester'] },
		],
		[
			{ href: '#tools', title: 'Tools' },
		],
		'Stay safe.'
	);
	</script>`

	art := Parse(types.ArticleSource{Category: "diy", Slug: "switch", Text: text})

	assert.Equal(t, types.GrammarPositional, art.Grammar)
	assert.Equal(t, "Wiring a Switch", art.Title)
	assert.Equal(t, "/img/switch.png", art.ImagePath)
	assert.Equal(t, "A light switch", art.ImageAlt)
	assert.Equal(t, "Turn off power.|Test the wire.", art.IntroText)
	assert.Equal(t, "Stay safe.", art.Conclusion)
	assert.Equal(t, []types.TOCItem{{Href: "#tools", Title: "Tools"}}, art.TOCItems)

	require.Len(t, art.ContentSections, 1)
	assert.Equal(t, "Tools", art.ContentSections[0].Heading)
	assert.Equal(t, []types.ContentList{{Items: []string{"Pliers", "Tester"}}}, art.ContentSections[0].Lists)
}

func TestPositional_CountsOnlyStringLiterals(t *testing.T) {
	args, err := scan.Values(`'Title', heroImage, 'Alt text', 'Intro', [], 'Bye'`)
	require.NoError(t, err)

	obj := Positional(args)
	assert.Equal(t, "Title", obj.String("title"))
	// heroImage is not a literal, so every later string shifts one slot.
	assert.Equal(t, "Alt text", obj.String("image"))
	assert.Equal(t, "Intro", obj.String("image_alt"))
	assert.Equal(t, "Bye", obj.String("intro_text"))
	assert.Equal(t, "", obj.String("conclusion"))

	_, ok := obj.Array("content_sections")
	assert.True(t, ok)
	_, ok = obj.Array("toc_items")
	assert.False(t, ok)
}

func TestPositional_IgnoresSurplusLiterals(t *testing.T) {
	args, err := scan.Values(`'a', 'b', 'c', 'd', 'e', 'f', [], [], []`)
	require.NoError(t, err)
	obj := Positional(args)
	assert.Len(t, obj.Fields, len(positionalStrings)+len(positionalArrays))
	assert.Equal(t, "e", obj.String("conclusion"))
}

// --- sections and lists ---

func TestExtractLists_StructuredWinsOverLegacy(t *testing.T) {
	obj, err := scan.ParseObject(`{ lists: [{ items: ['structured'] }], items: ['legacy'] }`)
	require.NoError(t, err)
	lists := extractLists(obj, &warnings{})
	assert.Equal(t, []types.ContentList{{Items: []string{"structured"}}}, lists)
}

func TestExtractLists_LegacyWhenStructuredEmpty(t *testing.T) {
	obj, err := scan.ParseObject(`{ lists: [{ title: 'Empty', items: [] }], items: ['legacy', 'items'] }`)
	require.NoError(t, err)
	lists := extractLists(obj, &warnings{})
	assert.Equal(t, []types.ContentList{{Items: []string{"legacy", "items"}}}, lists)
}

func TestListItems_FiltersNoise(t *testing.T) {
	items := listItems(`'First', true, 'false', '', '  ', ',', 'x', 'Second',`, &warnings{})
	assert.Equal(t, []string{"First", "x", "Second"}, items)
}

func TestExtractSections_NestedFieldsStayNested(t *testing.T) {
	body := `{ lists: [{ title: 'List title', items: ['a'] }], subsections: [{ subheading: 'S', content: 'Sub content' }] }`
	sections := extractSections(body, &warnings{})
	require.Len(t, sections, 1)
	sec := sections[0]
	assert.Empty(t, sec.Heading)
	assert.Empty(t, sec.Content, "subsection content must not become section content")
	assert.Equal(t, "List title", sec.Lists[0].Title)
	assert.Equal(t, "Sub content", sec.Subsections[0].Content)
}

func TestExtractSections_ContinuationBlockKept(t *testing.T) {
	sections := extractSections(`{ content: 'No heading here' }, {}`, &warnings{})
	require.Len(t, sections, 1)
	assert.Equal(t, "No heading here", sections[0].Content)
}

func TestExtractSubsections_OneLevelOnly(t *testing.T) {
	subs := extractSubsections(`{ subheading: 'Top', subsections: [{ subheading: 'Deep' }] }`, &warnings{})
	require.Len(t, subs, 1)
	assert.Equal(t, "Top", subs[0].Subheading)
}

// --- table of contents ---

func TestExtractTOC(t *testing.T) {
	tests := []struct {
		name   string
		span   string
		source string
		want   []types.TOCItem
	}{
		{
			name: "title then href",
			span: `{ title: 'One', href: '#one' }, { title: 'Two', href: '#two' }`,
			want: []types.TOCItem{{Href: "#one", Title: "One"}, {Href: "#two", Title: "Two"}},
		},
		{
			name: "href then title keeps fields apart",
			span: `{ href: '#one', title: 'One' }, { "href": "#two", "title": "Two's" }`,
			want: []types.TOCItem{{Href: "#one", Title: "One"}, {Href: "#two", Title: "Two's"}},
		},
		{
			name:   "whole source last resort keeps anchors only",
			span:   ``,
			source: `nav = [{ title: 'Home', href: '/' }, { title: 'Intro', href: '#intro' }]`,
			want:   []types.TOCItem{{Href: "#intro", Title: "Intro"}},
		},
		{
			name:   "span wins over source",
			span:   `{ href: '#a', title: 'A' }`,
			source: `{ title: 'B', href: '#b' }`,
			want:   []types.TOCItem{{Href: "#a", Title: "A"}},
		},
		{
			name: "backtick literals",
			span: "{ title: `Tips & ${tricks}`, href: '#tips' }, { href: `#more`, title: 'More' }",
			want: []types.TOCItem{{Href: "#tips", Title: "Tips & ${tricks}"}},
		},
		{
			name: "nothing anywhere",
			span: `{ label: 'x' }`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTOC(tt.span, tt.source))
		})
	}
}

func TestExtractTOC_PreservesOrder(t *testing.T) {
	span := `{title: 'Z', href: '#z'}, {title: 'A', href: '#a'}, {title: 'M', href: '#m'}`
	items := ExtractTOC(span, "")
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Z", "A", "M"}, []string{items[0].Title, items[1].Title, items[2].Title})
}

func TestParse_BacktickTOC(t *testing.T) {
	src := "const articleData = { title: 'T', toc_items: [{ title: `X`, href: '#x' }] };"
	art := Parse(types.ArticleSource{Text: src})
	assert.Equal(t, []types.TOCItem{{Href: "#x", Title: "X"}}, art.TOCItems)
}

// --- raw fallback ---

func TestParse_RawFallback(t *testing.T) {
	text := `<html><body><main class="page">hello world</main></body></html>`
	art := Parse(types.ArticleSource{Category: "misc", Slug: "hello", Text: text})

	assert.Equal(t, types.GrammarRaw, art.Grammar)
	assert.Equal(t, "hello world", art.RawHTML)
	assert.False(t, art.IsStructured())
}

func TestRawContent(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{
			name: "comment region preferred",
			text: `<main>ignored</main><!-- article-content --> <p>Kept</p> <!-- /article-content -->`,
			max:  100,
			want: "<p>Kept</p>",
		},
		{
			name: "directives stripped",
			text: "<main>\n  {{ header }}<p>A</p>{% if x %}<p>B</p>{% endif %}<% code %><?php echo 1; ?>{#if ok}C{/if}\n</main>",
			max:  100,
			want: "<p>A</p> <p>B</p> C",
		},
		{
			name: "tag prefix must be whole name",
			text: `<mainnav>menu</mainnav><article>story</article>`,
			max:  100,
			want: "story",
		},
		{
			name: "later whole tag found after prefix match",
			text: `<mainnav>x</mainnav><main>real</main>`,
			max:  100,
			want: "real",
		},
		{
			name: "body region as last resort",
			text: `<html><body class="page"><p>Only body</p></body></html>`,
			max:  100,
			want: "<p>Only body</p>",
		},
		{
			name: "unclosed region reads to end",
			text: `<article>open ended`,
			max:  100,
			want: "open ended",
		},
		{
			name: "truncated to bound",
			text: `<main>` + strings.Repeat("é", 50) + `</main>`,
			max:  10,
			want: strings.Repeat("é", 10),
		},
		{
			name: "no region",
			text: `just text`,
			max:  100,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RawContent(tt.text, tt.max))
		})
	}
}

func TestParse_EmptyNamedObjectFallsBackToRaw(t *testing.T) {
	text := `const articleData = {}; <main>Only raw</main>`
	art := Parse(types.ArticleSource{Text: text})
	assert.Equal(t, types.GrammarNamed, art.Grammar)
	assert.Equal(t, "Only raw", art.RawHTML)
}

func TestParse_StructuredLeavesRawEmpty(t *testing.T) {
	text := `const articleData = { title: 'T' }; <main>Body</main>`
	art := Parse(types.ArticleSource{Text: text})
	assert.Empty(t, art.RawHTML)
}

// --- robustness ---

func TestParse_UnterminatedObject(t *testing.T) {
	text := `const articleData = { title: 'Partial', intro_text: 'Kept', content_sections: [ { heading: 'H' `
	art := Parse(types.ArticleSource{Text: text})

	assert.Equal(t, "Partial", art.Title)
	assert.Equal(t, "Kept", art.IntroText)
	assert.Empty(t, art.ContentSections)
	assert.NotEmpty(t, art.Warnings)
}

func TestParse_UnterminatedCall(t *testing.T) {
	text := `renderArticle('Title only', 'img.png'`
	art := Parse(types.ArticleSource{Text: text})
	assert.Equal(t, "Title only", art.Title)
	assert.Equal(t, "img.png", art.ImagePath)
	assert.NotEmpty(t, art.Warnings)
}

func TestParse_LargeMalformedInputTerminates(t *testing.T) {
	text := "const articleData = {" + strings.Repeat("content_sections: [{ lists: [{ items: ['", 2000)
	art := Parse(types.ArticleSource{Text: text})
	assert.NotNil(t, art)
	assert.NotEmpty(t, art.Warnings)
}

func TestParse_MetaFromAnywhere(t *testing.T) {
	text := `<script>const seo = { meta_title: 'SEO Title', meta_description: 'SEO desc' };</script>
	renderArticle('T')`
	art := Parse(types.ArticleSource{Text: text})
	assert.Equal(t, "SEO Title", art.MetaTitle)
	assert.Equal(t, "SEO desc", art.MetaDescription)
}

// --- paragraphs ---

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Paragraphs("A|B|", "|"))
	assert.Equal(t, []string{"A", "B"}, Paragraphs(" A | | B ", ""))
	assert.Nil(t, Paragraphs("", "|"))
	assert.Equal(t, []string{"one", "two"}, Paragraphs("one\n\ntwo", "\n\n"))
}
