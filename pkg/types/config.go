// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "article-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ParseConfig holds the grammar markers recognized by the parser. Zero
// values fall back to the built-in defaults.
type ParseConfig struct {
	// NamedMarker identifies the keyed object form (default "articleData").
	NamedMarker string `json:"named_marker" yaml:"named_marker" mapstructure:"named_marker"`

	// PositionalMarker identifies the positional call form (default "renderArticle(").
	PositionalMarker string `json:"positional_marker" yaml:"positional_marker" mapstructure:"positional_marker"`

	// ParagraphSeparator splits intro, content and conclusion text (default "|").
	ParagraphSeparator string `json:"paragraph_separator" yaml:"paragraph_separator" mapstructure:"paragraph_separator"`

	// MaxRawLength bounds the raw fallback content in runes (default 5000).
	MaxRawLength int `json:"max_raw_length" yaml:"max_raw_length" mapstructure:"max_raw_length"`
}

// ConversionConfig holds settings for the convert stage.
type ConversionConfig struct {
	Parse ParseConfig `json:"parse" yaml:"parse" mapstructure:"parse"`

	// SourcesDir contains <category>/<slug>.<ext> template files.
	SourcesDir string `json:"sources_dir" yaml:"sources_dir" mapstructure:"sources_dir"`

	// OutputDir is the base directory for output (contains air/, blocks/, index/).
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Workers is the number of sources converted concurrently (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Force re-converts sources whose outputs are up to date.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`
}

// IndexConfig holds settings for the local article index.
type IndexConfig struct {
	// OutputDir is the base directory for output (contains air/, index/).
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// PublishConfig holds settings for the content-store publish stage.
type PublishConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the content store root (e.g. "https://cms.example.com").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Collection is the API collection name (default "articles").
	Collection string `json:"collection" yaml:"collection" mapstructure:"collection"`

	// Token is the bearer token for the content store API.
	Token string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`

	// OutputDir is the base directory for output (contains blocks/).
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Delay is the pause between consecutive entries (default 500ms).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// DryRun prints payloads instead of sending them.
	DryRun bool `json:"dry_run" yaml:"dry_run" mapstructure:"dry_run"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Development switches to human-readable console output.
	Development bool `json:"development" yaml:"development" mapstructure:"development"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion" mapstructure:"conversion"`
	Index      IndexConfig      `json:"index" yaml:"index" mapstructure:"index"`
	Publish    PublishConfig    `json:"publish" yaml:"publish" mapstructure:"publish"`
}
