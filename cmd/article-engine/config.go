// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-engine/internal/parse"
	"github.com/pdiddy/article-engine/pkg/types"
)

// setDefaults registers the default value of every configuration key so
// that AutomaticEnv can resolve keys absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("conversion.sources_dir", "sources")
	v.SetDefault("conversion.output_dir", "output")
	v.SetDefault("conversion.workers", 4)
	v.SetDefault("conversion.force", false)
	v.SetDefault("conversion.parse.named_marker", parse.DefaultNamedMarker)
	v.SetDefault("conversion.parse.positional_marker", parse.DefaultPositionalMarker)
	v.SetDefault("conversion.parse.paragraph_separator", parse.DefaultParagraphSeparator)
	v.SetDefault("conversion.parse.max_raw_length", parse.DefaultMaxRawLength)

	v.SetDefault("index.output_dir", "output")
	v.SetDefault("index.max_results", 20)

	v.SetDefault("publish.base_url", "")
	v.SetDefault("publish.collection", "articles")
	v.SetDefault("publish.token", "")
	v.SetDefault("publish.output_dir", "output")
	v.SetDefault("publish.delay", 500*time.Millisecond)
	v.SetDefault("publish.max_retries", 5)
	v.SetDefault("publish.dry_run", false)
	v.SetDefault("publish.timeout", 30*time.Second)
	v.SetDefault("publish.user_agent", "article-engine/"+version)
}

// loadConfig decodes the merged flag, environment, file and default
// settings into a PipelineConfig.
func loadConfig(v *viper.Viper) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// bindFlag binds a command flag to a configuration key on the global viper.
func bindFlag(f *pflag.Flag, key string) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", f.Name, err))
	}
}
