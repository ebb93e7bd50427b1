// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish sends converted articles to a headless content store as
// rich-text entries, creating or updating each entry by slug.
package publish

import "github.com/pdiddy/article-engine/pkg/types"

// Node is one element of the content store's rich-text tree.
type Node = map[string]any

// Nodes converts blocks to the content store's nested node form.
func Nodes(blocks []types.Block) []Node {
	out := make([]Node, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case types.BlockHeading:
			out = append(out, Node{
				"type":     "heading",
				"level":    b.Heading.Level,
				"children": textNodes(b.Heading.Runs),
			})
		case types.BlockParagraph:
			out = append(out, Node{
				"type":     "paragraph",
				"children": textNodes(b.Paragraph.Runs),
			})
		case types.BlockList:
			format := "unordered"
			if b.List.Ordered {
				format = "ordered"
			}
			items := make([]Node, len(b.List.Items))
			for i, item := range b.List.Items {
				items[i] = Node{"type": "list-item", "children": textNodes(item)}
			}
			out = append(out, Node{
				"type":     "list",
				"format":   format,
				"children": items,
			})
		}
	}
	return out
}

// textNodes always returns at least one child; the store rejects empty
// children arrays.
func textNodes(runs []types.TextRun) []Node {
	if len(runs) == 0 {
		return []Node{{"type": "text", "text": ""}}
	}
	out := make([]Node, len(runs))
	for i, r := range runs {
		n := Node{"type": "text", "text": r.Text}
		if r.Bold {
			n["bold"] = true
		}
		if r.Italic {
			n["italic"] = true
		}
		out[i] = n
	}
	return out
}

// Entry builds the create/update request body for a document.
func Entry(doc types.Document) Node {
	art := doc.Article
	toc := make([]Node, len(art.TOCItems))
	for i, item := range art.TOCItems {
		toc[i] = Node{"href": item.Href, "title": item.Title}
	}
	return Node{"data": Node{
		"title":           art.Title,
		"slug":            art.Slug,
		"category":        art.Category,
		"metaTitle":       art.MetaTitle,
		"metaDescription": art.MetaDescription,
		"imagePath":       art.ImagePath,
		"imageAlt":        art.ImageAlt,
		"toc":             toc,
		"content":         Nodes(doc.Blocks),
	}}
}
