// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ArticleSource is one template file read from the sources tree. It is
// read once and never modified.
type ArticleSource struct {
	// Category is the parent directory of the source (e.g. "guides").
	Category string `json:"category" yaml:"category"`

	// Slug is the file name without extension (e.g. "choosing-a-router").
	Slug string `json:"slug" yaml:"slug"`

	// Text is the raw template source.
	Text string `json:"-" yaml:"-"`
}

// Grammar identifies which extraction strategy produced a ParsedArticle.
type Grammar string

const (
	GrammarNamed      Grammar = "named"
	GrammarPositional Grammar = "positional"
	GrammarRaw        Grammar = "raw"
)

// Image references a featured or section image by path. Image data is
// never loaded by the engine.
type Image struct {
	Src string `json:"src" yaml:"src"`
	Alt string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// TOCItem is one table-of-contents entry in source order.
type TOCItem struct {
	Href  string `json:"href" yaml:"href"`
	Title string `json:"title" yaml:"title"`
}

// ContentList is a titled, optionally ordered list. Items hold raw inline
// markup that is converted to text runs during block assembly.
type ContentList struct {
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Ordered bool     `json:"ordered" yaml:"ordered"`
	Items   []string `json:"items" yaml:"items"`
}

// Subsection has the shape of a Section without further nesting.
type Subsection struct {
	Subheading        string        `json:"subheading,omitempty" yaml:"subheading,omitempty"`
	Content           string        `json:"content,omitempty" yaml:"content,omitempty"`
	AdditionalContent string        `json:"additional_content,omitempty" yaml:"additional_content,omitempty"`
	Lists             []ContentList `json:"lists,omitempty" yaml:"lists,omitempty"`
	Image             *Image        `json:"image,omitempty" yaml:"image,omitempty"`
}

// IsEmpty reports whether every field of the subsection is absent.
func (s Subsection) IsEmpty() bool {
	return s.Subheading == "" && s.Content == "" && s.AdditionalContent == "" &&
		len(s.Lists) == 0 && s.Image == nil
}

// Section is one top-level content section. A section without heading or
// id is a valid continuation block as long as it carries content.
type Section struct {
	ID                string        `json:"id,omitempty" yaml:"id,omitempty"`
	Heading           string        `json:"heading,omitempty" yaml:"heading,omitempty"`
	Content           string        `json:"content,omitempty" yaml:"content,omitempty"`
	AdditionalContent string        `json:"additional_content,omitempty" yaml:"additional_content,omitempty"`
	Lists             []ContentList `json:"lists,omitempty" yaml:"lists,omitempty"`
	Subsections       []Subsection  `json:"subsections,omitempty" yaml:"subsections,omitempty"`
	Image             *Image        `json:"image,omitempty" yaml:"image,omitempty"`
}

// IsEmpty reports whether every field of the section is absent.
func (s Section) IsEmpty() bool {
	return s.ID == "" && s.Heading == "" && s.Content == "" && s.AdditionalContent == "" &&
		len(s.Lists) == 0 && len(s.Subsections) == 0 && s.Image == nil
}

// ParsedArticle is the article intermediate representation (AIR): the
// structured result of extracting one ArticleSource. It is built once by
// the parser and treated as read-only afterwards.
type ParsedArticle struct {
	Category string  `json:"category" yaml:"category"`
	Slug     string  `json:"slug" yaml:"slug"`
	Grammar  Grammar `json:"grammar" yaml:"grammar"`

	Title           string `json:"title,omitempty" yaml:"title,omitempty"`
	MetaTitle       string `json:"meta_title,omitempty" yaml:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty" yaml:"meta_description,omitempty"`
	ImagePath       string `json:"image_path,omitempty" yaml:"image_path,omitempty"`
	ImageAlt        string `json:"image_alt,omitempty" yaml:"image_alt,omitempty"`

	// IntroText and Conclusion are segmented into paragraphs by the
	// paragraph separator.
	IntroText       string    `json:"intro_text,omitempty" yaml:"intro_text,omitempty"`
	TOCItems        []TOCItem `json:"toc_items,omitempty" yaml:"toc_items,omitempty"`
	ContentSections []Section `json:"content_sections,omitempty" yaml:"content_sections,omitempty"`
	Conclusion      string    `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`

	// RawHTML is set only when no structured content could be extracted.
	RawHTML string `json:"raw_html,omitempty" yaml:"raw_html,omitempty"`

	// Warnings records malformed-source notes. They never abort extraction.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// IsStructured reports whether any structured content field is set.
func (a *ParsedArticle) IsStructured() bool {
	return a.Title != "" || a.IntroText != "" || len(a.ContentSections) > 0 || a.Conclusion != ""
}

// Document pairs an AIR with the blocks assembled from it. It is the unit
// written by the convert stage and read by the index and publish stages.
type Document struct {
	Article ParsedArticle `json:"article" yaml:"article"`
	Blocks  []Block       `json:"blocks" yaml:"blocks"`
}
