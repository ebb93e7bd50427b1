// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps a local SQLite catalogue of converted articles with
// full-text search over their titles and text.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/article-engine/internal/convert"
	"github.com/pdiddy/article-engine/internal/logger"
	"github.com/pdiddy/article-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "articles.db"
)

// Store manages the article index database.
type Store struct {
	db         *sql.DB
	outputDir  string
	maxResults int
	log        logger.Logger
}

// NewStore opens or creates the index at outputDir/index/articles.db and
// creates the schema if it does not exist. A nil log discards log output.
func NewStore(cfg types.IndexConfig, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNop()
	}
	dbDir := filepath.Join(cfg.OutputDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		outputDir:  cfg.OutputDir,
		maxResults: maxResults,
		log:        log,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			slug TEXT NOT NULL,
			title TEXT,
			grammar TEXT,
			meta_title TEXT,
			meta_description TEXT,
			block_count INTEGER,
			structured INTEGER,
			text TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			key TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='articles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE articles_fts USING fts5(title, text, content=articles, content_rowid=rowid)`,
			`CREATE TRIGGER articles_ai AFTER INSERT ON articles BEGIN
				INSERT INTO articles_fts(rowid, title, text) VALUES (new.rowid, new.title, new.text);
			END`,
			`CREATE TRIGGER articles_ad AFTER DELETE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, text) VALUES('delete', old.rowid, old.title, old.text);
			END`,
			`CREATE TRIGGER articles_au AFTER UPDATE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, text) VALUES('delete', old.rowid, old.title, old.text);
				INSERT INTO articles_fts(rowid, title, text) VALUES (new.rowid, new.title, new.text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of articles processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads the AIR files under outputDir/air and their block files
// and populates the database. Files whose modification time matches the
// last indexing run are skipped. When anything changed, export.yaml is
// rewritten.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	files, err := convert.Outputs(s.outputDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("listing AIR files: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintf(w, "no converted articles in %s\n", s.outputDir)
	}

	var summary IngestSummary

	for _, src := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		key := src.Key()

		modTime, err := latestModTime(s.outputDir, src)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			continue
		}

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE key = ?`, key,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", key)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		doc, err := convert.LoadDocument(s.outputDir, src.Category, src.Slug)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			continue
		}

		if err := s.ingestArticle(ctx, key, src, doc, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", key, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d blocks)\n", key, len(doc.Blocks))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d blocks)\n", key, len(doc.Blocks))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	s.log.Info("index ingest finished",
		logger.Int("indexed", summary.Indexed),
		logger.Int("updated", summary.Updated),
		logger.Int("skipped", summary.Skipped),
		logger.Int("failed", summary.Failed))

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) ingestArticle(ctx context.Context, key string, src convert.SourceFile, doc types.Document, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	art := doc.Article
	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (key, category, slug, title, grammar, meta_title, meta_description, block_count, structured, text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			category=excluded.category, slug=excluded.slug, title=excluded.title,
			grammar=excluded.grammar, meta_title=excluded.meta_title,
			meta_description=excluded.meta_description, block_count=excluded.block_count,
			structured=excluded.structured, text=excluded.text`,
		key, src.Category, src.Slug, art.Title, string(art.Grammar),
		art.MetaTitle, art.MetaDescription, len(doc.Blocks), art.IsStructured(),
		documentText(doc),
	)
	if err != nil {
		return fmt.Errorf("upserting article: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (key, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		key, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// documentText is the searchable text of an article: the plain text of
// every block, or the raw region text when there are no blocks.
func documentText(doc types.Document) string {
	if len(doc.Blocks) == 0 {
		return doc.Article.RawHTML
	}
	parts := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		parts = append(parts, b.PlainText())
	}
	return strings.Join(parts, "\n")
}

// latestModTime returns the newer modification time of an article's AIR
// and block files, so a rewrite of either triggers reindexing.
func latestModTime(outputDir string, src convert.SourceFile) (string, error) {
	airPath, blocksPath := convert.OutputPaths(outputDir, src.Category, src.Slug)
	info, err := os.Stat(airPath)
	if err != nil {
		return "", err
	}
	latest := info.ModTime()
	if binfo, err := os.Stat(blocksPath); err == nil && binfo.ModTime().After(latest) {
		latest = binfo.ModTime()
	}
	return latest.UTC().Format(time.RFC3339Nano), nil
}
