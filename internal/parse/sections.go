// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"

	"github.com/pdiddy/article-engine/internal/scan"
	"github.com/pdiddy/article-engine/pkg/types"
)

// objects splits an array body into its top-level object literals. Every
// section, subsection and list lookup goes through here. On malformed
// input the objects read so far are returned and a warning is recorded.
func objects(body, what string, w *warnings) []scan.Object {
	spans, err := scan.SplitBalanced(body, '{')
	if err != nil {
		w.add("%s: %v", what, err)
	}
	out := make([]scan.Object, 0, len(spans))
	for _, span := range spans {
		obj, err := scan.ParseObject(span)
		if err != nil {
			w.add("%s entry: %v", what, err)
		}
		out = append(out, obj)
	}
	return out
}

// extractSections reads the body of a content_sections array. Entries with
// every field absent are dropped.
func extractSections(body string, w *warnings) []types.Section {
	var sections []types.Section
	for _, obj := range objects(body, "content_sections", w) {
		sec := types.Section{
			ID:                obj.String("id"),
			Heading:           obj.String("heading"),
			Content:           obj.String("content"),
			AdditionalContent: obj.String("additional_content"),
			Lists:             extractLists(obj, w),
			Image:             imageField(obj),
		}
		if sub, ok := obj.Array("subsections"); ok {
			sec.Subsections = extractSubsections(sub, w)
		}
		if !sec.IsEmpty() {
			sections = append(sections, sec)
		}
	}
	return sections
}

// extractSubsections reads one level of subsections. A nested subsections
// field inside a subsection is ignored.
func extractSubsections(body string, w *warnings) []types.Subsection {
	var subs []types.Subsection
	for _, obj := range objects(body, "subsections", w) {
		sub := types.Subsection{
			Subheading:        obj.FirstString("subheading", "heading"),
			Content:           obj.String("content"),
			AdditionalContent: obj.String("additional_content"),
			Lists:             extractLists(obj, w),
			Image:             imageField(obj),
		}
		if !sub.IsEmpty() {
			subs = append(subs, sub)
		}
	}
	return subs
}

// extractLists reads the structured lists field of a section. When it
// yields nothing, a bare items array on the section is taken as a single
// untitled unordered list. Lists without items are dropped.
func extractLists(obj scan.Object, w *warnings) []types.ContentList {
	var lists []types.ContentList
	if body, ok := obj.Array("lists"); ok {
		for _, lobj := range objects(body, "lists", w) {
			itemsBody, _ := lobj.Array("items")
			items := listItems(itemsBody, w)
			if len(items) == 0 {
				continue
			}
			lists = append(lists, types.ContentList{
				Title:   lobj.String("title"),
				Ordered: lobj.Bool("ordered"),
				Items:   items,
			})
		}
	}
	if len(lists) > 0 {
		return lists
	}

	if body, ok := obj.Array("items"); ok {
		if items := listItems(body, w); len(items) > 0 {
			lists = append(lists, types.ContentList{Items: items})
		}
	}
	return lists
}

// listItems returns the string items of an items array in order, dropping
// boolean tokens and near-empty strings left by stray commas.
func listItems(body string, w *warnings) []string {
	if body == "" {
		return nil
	}
	raw, err := scan.Strings(body)
	if err != nil {
		w.add("list items: %v", err)
	}
	var items []string
	for _, item := range raw {
		if isNearEmpty(item) {
			continue
		}
		items = append(items, item)
	}
	return items
}

func isNearEmpty(s string) bool {
	s = strings.TrimSpace(s)
	if s == "true" || s == "false" {
		return true
	}
	return strings.Trim(s, ",; ") == ""
}
