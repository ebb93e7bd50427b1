// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs template sources through the parser and block
// assembler and writes the AIR and block files for each article.
package convert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-engine/internal/blocks"
	"github.com/pdiddy/article-engine/internal/logger"
	"github.com/pdiddy/article-engine/internal/parse"
	"github.com/pdiddy/article-engine/pkg/types"
)

const (
	// AIRDir is the subdirectory under the output base for AIR YAML files.
	AIRDir = "air"
	// BlocksDir is the subdirectory under the output base for block JSON files.
	BlocksDir = "blocks"

	defaultWorkers = 4
)

// ErrDuplicateSlug marks a source whose category and slug are already
// claimed by an earlier source in the same batch, for example a.html and
// a.astro in one directory. Both would write the same output files.
var ErrDuplicateSlug = errors.New("duplicate article slug")

// Status is the outcome of converting one source.
type Status int

const (
	StatusConverted Status = iota
	StatusSkipped
	StatusFailed
)

// Result records the outcome for one source file.
type Result struct {
	Source   SourceFile
	Status   Status
	RawOnly  bool
	Warnings []string
	Err      error
}

// BatchSummary holds the outcome of a batch conversion run.
type BatchSummary struct {
	Converted int
	Skipped   int
	Failed    int
	// RawOnly counts converted articles that produced no structured
	// content and fell back to raw region text.
	RawOnly int
}

// Total returns the number of sources processed.
func (s BatchSummary) Total() int {
	return s.Converted + s.Skipped + s.Failed
}

// HasFailures reports whether any source failed conversion.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Converter parses sources and writes their outputs. It is safe for
// concurrent use; the parser and assembler hold no mutable state.
type Converter struct {
	parser    *parse.Parser
	assembler *blocks.Assembler
	sources   string
	output    string
	workers   int
	force     bool
	log       logger.Logger
}

// New creates a Converter from cfg. A nil log discards log output.
func New(cfg types.ConversionConfig, log logger.Logger) *Converter {
	if log == nil {
		log = logger.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	p := parse.New(cfg.Parse)
	return &Converter{
		parser:    p,
		assembler: blocks.NewAssembler(p.Separator()),
		sources:   cfg.SourcesDir,
		output:    cfg.OutputDir,
		workers:   workers,
		force:     cfg.Force,
		log:       log,
	}
}

// ConvertSource parses an in-memory source and assembles its blocks.
func (c *Converter) ConvertSource(src types.ArticleSource) types.Document {
	art := c.parser.Parse(src)
	return types.Document{Article: *art, Blocks: c.assembler.Assemble(art)}
}

// ConvertAll discovers every source under the configured sources
// directory and converts them with ConvertBatch.
func (c *Converter) ConvertAll(ctx context.Context, w io.Writer) (BatchSummary, error) {
	files, err := Discover(c.sources)
	if err != nil {
		return BatchSummary{}, err
	}
	if len(files) == 0 {
		fmt.Fprintf(w, "no sources found in %s\n", c.sources)
		return BatchSummary{}, nil
	}
	return c.ConvertBatch(ctx, files, w), nil
}

// ConvertBatch converts files on a bounded worker pool. Status lines are
// printed to w in input order once every worker has finished. Sources not
// yet started when ctx is cancelled are reported as failed, as is any
// source whose key repeats an earlier one in files.
func (c *Converter) ConvertBatch(ctx context.Context, files []SourceFile, w io.Writer) BatchSummary {
	results := make([]Result, len(files))
	jobs := make(chan int, len(files))

	owners := make(map[string]string, len(files))
	var queued []int
	for i, f := range files {
		if first, ok := owners[f.Key()]; ok {
			results[i] = Result{
				Source: f,
				Status: StatusFailed,
				Err:    fmt.Errorf("%w: %s writes the same outputs as %s", ErrDuplicateSlug, f.Path, first),
			}
			continue
		}
		owners[f.Key()] = f.Path
		queued = append(queued, i)
	}

	var wg sync.WaitGroup
	for i := 0; i < min(c.workers, len(queued)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = Result{Source: files[idx], Status: StatusFailed, Err: err}
					continue
				}
				results[idx] = c.convertFile(files[idx])
			}
		}()
	}
	for _, i := range queued {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var summary BatchSummary
	for _, r := range results {
		name := r.Source.Key()
		switch r.Status {
		case StatusConverted:
			summary.Converted++
			if r.RawOnly {
				summary.RawOnly++
				fmt.Fprintf(w, "converted: %s (raw only)\n", name)
			} else {
				fmt.Fprintf(w, "converted: %s\n", name)
			}
		case StatusSkipped:
			summary.Skipped++
			fmt.Fprintf(w, "skipped: %s (up to date)\n", name)
		case StatusFailed:
			summary.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, r.Err)
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted (%d raw only), %d skipped, %d failed (total: %d)\n",
		summary.Converted, summary.RawOnly, summary.Skipped, summary.Failed, summary.Total())
	c.log.Info("conversion finished",
		logger.Int("converted", summary.Converted),
		logger.Int("raw_only", summary.RawOnly),
		logger.Int("skipped", summary.Skipped),
		logger.Int("failed", summary.Failed))
	return summary
}

func (c *Converter) convertFile(f SourceFile) Result {
	res := Result{Source: f}
	airPath, blocksPath := OutputPaths(c.output, f.Category, f.Slug)

	if !c.force && upToDate(f.Path, airPath, blocksPath) {
		res.Status = StatusSkipped
		return res
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("reading source: %w", err)
		return res
	}

	doc := c.ConvertSource(types.ArticleSource{Category: f.Category, Slug: f.Slug, Text: string(data)})
	log := c.log.With(logger.String("category", f.Category), logger.String("slug", f.Slug))
	for _, warn := range doc.Article.Warnings {
		log.Warn("source recovered", logger.String("detail", warn))
	}
	log.Debug("converted source",
		logger.String("grammar", string(doc.Article.Grammar)),
		logger.Int("sections", len(doc.Article.ContentSections)),
		logger.Int("blocks", len(doc.Blocks)))

	if err := writeDocument(doc, airPath, blocksPath); err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	res.Status = StatusConverted
	res.RawOnly = !doc.Article.IsStructured()
	res.Warnings = doc.Article.Warnings
	return res
}

// OutputPaths returns the AIR and block file paths for an article.
func OutputPaths(outputDir, category, slug string) (airPath, blocksPath string) {
	airPath = filepath.Join(outputDir, AIRDir, category, slug+".yaml")
	blocksPath = filepath.Join(outputDir, BlocksDir, category, slug+".json")
	return airPath, blocksPath
}

func writeDocument(doc types.Document, airPath, blocksPath string) error {
	air, err := yaml.Marshal(&doc.Article)
	if err != nil {
		return fmt.Errorf("marshaling AIR: %w", err)
	}
	blk := doc.Blocks
	if blk == nil {
		blk = []types.Block{}
	}
	blockData, err := json.MarshalIndent(blk, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling blocks: %w", err)
	}

	for _, out := range []struct {
		path string
		data []byte
	}{
		{airPath, air},
		{blocksPath, append(blockData, '\n')},
	} {
		if err := os.MkdirAll(filepath.Dir(out.path), 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(out.path, out.data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out.path, err)
		}
	}
	return nil
}

// upToDate reports whether both outputs exist and are no older than the source.
func upToDate(src string, outputs ...string) bool {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false
	}
	for _, out := range outputs {
		info, err := os.Stat(out)
		if err != nil || info.ModTime().Before(srcInfo.ModTime()) {
			return false
		}
	}
	return true
}

// LoadDocument reads the AIR and block files written for an article.
// A missing block file yields nil blocks; a decoded block that fails
// validation is an error.
func LoadDocument(outputDir, category, slug string) (types.Document, error) {
	airPath, blocksPath := OutputPaths(outputDir, category, slug)

	var doc types.Document
	data, err := os.ReadFile(airPath)
	if err != nil {
		return doc, fmt.Errorf("reading AIR: %w", err)
	}
	if err := yaml.Unmarshal(data, &doc.Article); err != nil {
		return doc, fmt.Errorf("parsing AIR %s: %w", airPath, err)
	}

	data, err = os.ReadFile(blocksPath)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, fmt.Errorf("reading blocks: %w", err)
	}
	if err := json.Unmarshal(data, &doc.Blocks); err != nil {
		return doc, fmt.Errorf("parsing blocks %s: %w", blocksPath, err)
	}
	for i, b := range doc.Blocks {
		if err := b.Validate(); err != nil {
			return doc, fmt.Errorf("block %d of %s: %w", i, blocksPath, err)
		}
	}
	return doc, nil
}
