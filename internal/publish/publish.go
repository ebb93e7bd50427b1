// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/article-engine/internal/convert"
	"github.com/pdiddy/article-engine/internal/httputil"
	"github.com/pdiddy/article-engine/internal/logger"
	"github.com/pdiddy/article-engine/pkg/types"
)

const (
	defaultCollection = "articles"
	defaultTimeout    = 30 * time.Second
	defaultUserAgent  = "article-engine/0.1"
	maxErrorBody      = 512
)

// ErrRawOnly is returned for articles without structured content; the
// store only receives articles that were parsed from a recognized grammar.
var ErrRawOnly = errors.New("raw only")

// Action is what publishing did with one article.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDryRun  Action = "dry-run"
)

// Summary holds the outcome of a publish run.
type Summary struct {
	Created int
	Updated int
	DryRun  int
	Skipped int
	Failed  int
}

// Total returns the number of articles processed.
func (s Summary) Total() int {
	return s.Created + s.Updated + s.DryRun + s.Skipped + s.Failed
}

// HasFailures reports whether any article failed to publish.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Publisher creates or updates content store entries.
type Publisher struct {
	client     *httputil.Client
	baseURL    string
	collection string
	outputDir  string
	delay      time.Duration
	dryRun     bool
	out        io.Writer
	log        logger.Logger
}

// New creates a Publisher. BaseURL is required unless DryRun is set.
// Dry-run payloads are written to out.
func New(cfg types.PublishConfig, out io.Writer, log logger.Logger) (*Publisher, error) {
	if cfg.BaseURL == "" && !cfg.DryRun {
		return nil, errors.New("publish: base_url is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	collection := cfg.Collection
	if collection == "" {
		collection = defaultCollection
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Publisher{
		client: &httputil.Client{
			HTTP:       &http.Client{Timeout: timeout},
			Token:      cfg.Token,
			UserAgent:  ua,
			MaxRetries: cfg.MaxRetries,
			Log:        log,
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		collection: collection,
		outputDir:  cfg.OutputDir,
		delay:      cfg.Delay,
		dryRun:     cfg.DryRun,
		out:        out,
		log:        log,
	}, nil
}

// Publish sends one document. An existing entry with the same slug is
// updated; otherwise a new entry is created. In dry-run mode the payload
// is printed and nothing is sent.
func (p *Publisher) Publish(ctx context.Context, doc types.Document) (Action, error) {
	if !doc.Article.IsStructured() {
		return "", ErrRawOnly
	}

	body, err := json.MarshalIndent(Entry(doc), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling entry: %w", err)
	}

	if p.dryRun {
		fmt.Fprintf(p.out, "%s\n", body)
		return ActionDryRun, nil
	}

	id, err := p.find(ctx, doc.Article.Slug)
	if err != nil {
		return "", err
	}

	method, endpoint, action := http.MethodPost, p.collectionURL(), ActionCreated
	if id != "" {
		method, endpoint, action = http.MethodPut, p.collectionURL()+"/"+url.PathEscape(id), ActionUpdated
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("%s entry: %w", action, err)
	}
	return action, nil
}

// PublishAll publishes every converted article under the output
// directory, pausing between requests, and prints a status line per
// article to w.
func (p *Publisher) PublishAll(ctx context.Context, w io.Writer) (Summary, error) {
	files, err := convert.Outputs(p.outputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("listing converted articles: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintf(w, "no converted articles in %s\n", p.outputDir)
		return Summary{}, nil
	}

	var summary Summary
	sent := false
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		key := f.Key()

		doc, err := convert.LoadDocument(p.outputDir, f.Category, f.Slug)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", key, err)
			summary.Failed++
			continue
		}
		if !doc.Article.IsStructured() {
			fmt.Fprintf(w, "skipped: %s (raw only)\n", key)
			summary.Skipped++
			continue
		}

		if sent && !p.dryRun && p.delay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(p.delay):
			}
		}
		sent = true

		action, err := p.Publish(ctx, doc)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", key, err)
			p.log.Error("publish failed", logger.String("article", key), logger.Err(err))
			summary.Failed++
			continue
		}

		fmt.Fprintf(w, "%s: %s\n", action, key)
		switch action {
		case ActionCreated:
			summary.Created++
		case ActionUpdated:
			summary.Updated++
		case ActionDryRun:
			summary.DryRun++
		}
	}

	fmt.Fprintf(w, "\nPublish summary: %d created, %d updated, %d dry-run, %d skipped, %d failed (total: %d)\n",
		summary.Created, summary.Updated, summary.DryRun, summary.Skipped, summary.Failed, summary.Total())
	return summary, nil
}

func (p *Publisher) collectionURL() string {
	return p.baseURL + "/api/" + p.collection
}

// find returns the document id of the entry with slug, or "" when none exists.
func (p *Publisher) find(ctx context.Context, slug string) (string, error) {
	q := url.Values{}
	q.Set("filters[slug][$eq]", slug)
	endpoint := p.collectionURL() + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("building lookup request: %w", err)
	}
	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("looking up %s: %w", slug, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("looking up %s: %w", slug, err)
	}

	var result struct {
		Data []struct {
			DocumentID string      `json:"documentId"`
			ID         json.Number `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding lookup response: %w", err)
	}
	if len(result.Data) == 0 {
		return "", nil
	}
	if id := result.Data[0].DocumentID; id != "" {
		return id, nil
	}
	return result.Data[0].ID.String(), nil
}

// checkStatus turns a non-2xx response into an error carrying a prefix of
// the response body.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
}
