// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/article-engine/pkg/types"
)

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over title and text.
	Query string

	// Category filters by article category.
	Category string

	// Grammar filters by the source grammar that produced the article.
	Grammar types.Grammar

	// StructuredOnly drops articles that fell back to raw content.
	StructuredOnly bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Category == "" && q.Grammar == "" && !q.StructuredOnly
}

// Article is one indexed article.
type Article struct {
	Category        string        `json:"category" yaml:"category"`
	Slug            string        `json:"slug" yaml:"slug"`
	Title           string        `json:"title,omitempty" yaml:"title,omitempty"`
	Grammar         types.Grammar `json:"grammar" yaml:"grammar"`
	MetaTitle       string        `json:"meta_title,omitempty" yaml:"meta_title,omitempty"`
	MetaDescription string        `json:"meta_description,omitempty" yaml:"meta_description,omitempty"`
	BlockCount      int           `json:"block_count" yaml:"block_count"`
	Structured      bool          `json:"structured" yaml:"structured"`
	Text            string        `json:"text,omitempty" yaml:"text,omitempty"`
}

// Retrieve queries the index with optional full-text search and filters.
// Full-text results are ranked by relevance; filter-only results are
// sorted by category then slug.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Article, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	const columns = `a.category, a.slug, a.title, a.grammar, a.meta_title,
		a.meta_description, a.block_count, a.structured, a.text`

	if useFTS {
		qb.WriteString(`SELECT ` + columns + `
			FROM articles_fts
			JOIN articles a ON a.rowid = articles_fts.rowid
			WHERE articles_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(`SELECT ` + columns + `
			FROM articles a
			WHERE 1=1`)
	}

	if opts.Category != "" {
		qb.WriteString(` AND a.category = ?`)
		args = append(args, opts.Category)
	}

	if opts.Grammar != "" {
		qb.WriteString(` AND a.grammar = ?`)
		args = append(args, string(opts.Grammar))
	}

	if opts.StructuredOnly {
		qb.WriteString(` AND a.structured = 1`)
	}

	if useFTS {
		qb.WriteString(` ORDER BY articles_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY a.category, a.slug`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying article index: %w", err)
	}
	defer rows.Close()

	var results []Article
	for rows.Next() {
		var (
			a                                 Article
			grammar                           string
			title, metaTitle, metaDescription sql.NullString
		)
		if err := rows.Scan(
			&a.Category, &a.Slug, &title, &grammar, &metaTitle,
			&metaDescription, &a.BlockCount, &a.Structured, &a.Text,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		a.Grammar = types.Grammar(grammar)
		a.Title = title.String
		a.MetaTitle = metaTitle.String
		a.MetaDescription = metaDescription.String
		results = append(results, a)
	}

	return results, rows.Err()
}
