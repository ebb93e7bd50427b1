// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// BlockKind tags the payload carried by a Block.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
)

// TextRun is a contiguous run of text with one emphasis style.
type TextRun struct {
	Text   string `json:"text" yaml:"text"`
	Bold   bool   `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty" yaml:"italic,omitempty"`
}

// HeadingBlock is a level 2 or level 3 heading.
type HeadingBlock struct {
	Level int       `json:"level" yaml:"level"`
	Runs  []TextRun `json:"runs" yaml:"runs"`
}

// ParagraphBlock is one paragraph of styled runs.
type ParagraphBlock struct {
	Runs []TextRun `json:"runs" yaml:"runs"`
}

// ListBlock is an ordered or unordered list; each item is a run sequence.
type ListBlock struct {
	Ordered bool        `json:"ordered" yaml:"ordered"`
	Items   [][]TextRun `json:"items" yaml:"items"`
}

// Block is one unit of rich-text output. Exactly one payload pointer is
// set and it always matches Kind; build blocks with the New* constructors.
type Block struct {
	Kind      BlockKind       `json:"kind" yaml:"kind"`
	Heading   *HeadingBlock   `json:"heading,omitempty" yaml:"heading,omitempty"`
	Paragraph *ParagraphBlock `json:"paragraph,omitempty" yaml:"paragraph,omitempty"`
	List      *ListBlock      `json:"list,omitempty" yaml:"list,omitempty"`
}

// NewHeading returns a heading block.
func NewHeading(level int, runs []TextRun) Block {
	return Block{Kind: BlockHeading, Heading: &HeadingBlock{Level: level, Runs: runs}}
}

// NewParagraph returns a paragraph block.
func NewParagraph(runs []TextRun) Block {
	return Block{Kind: BlockParagraph, Paragraph: &ParagraphBlock{Runs: runs}}
}

// NewList returns a list block.
func NewList(ordered bool, items [][]TextRun) Block {
	return Block{Kind: BlockList, List: &ListBlock{Ordered: ordered, Items: items}}
}

// Validate checks that the block carries exactly the payload its kind
// names. Decoded blocks from disk are validated before use.
func (b Block) Validate() error {
	set := 0
	for _, p := range []bool{b.Heading != nil, b.Paragraph != nil, b.List != nil} {
		if p {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("block %q: want exactly one payload, have %d", b.Kind, set)
	}

	switch b.Kind {
	case BlockHeading:
		if b.Heading == nil {
			return fmt.Errorf("heading block without heading payload")
		}
		if b.Heading.Level != 2 && b.Heading.Level != 3 {
			return fmt.Errorf("heading level %d out of range [2,3]", b.Heading.Level)
		}
	case BlockParagraph:
		if b.Paragraph == nil {
			return fmt.Errorf("paragraph block without paragraph payload")
		}
	case BlockList:
		if b.List == nil {
			return fmt.Errorf("list block without list payload")
		}
	default:
		return fmt.Errorf("unknown block kind %q", b.Kind)
	}
	return nil
}

// PlainText concatenates the text of every run in the block. List items
// are separated by newlines.
func (b Block) PlainText() string {
	switch b.Kind {
	case BlockHeading:
		if b.Heading != nil {
			return runsText(b.Heading.Runs)
		}
	case BlockParagraph:
		if b.Paragraph != nil {
			return runsText(b.Paragraph.Runs)
		}
	case BlockList:
		if b.List != nil {
			parts := make([]string, len(b.List.Items))
			for i, item := range b.List.Items {
				parts[i] = runsText(item)
			}
			return strings.Join(parts, "\n")
		}
	}
	return ""
}

func runsText(runs []TextRun) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
