// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-engine/internal/convert"
	"github.com/pdiddy/article-engine/internal/logger"
	"github.com/pdiddy/article-engine/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse one source file and print its AIR and blocks",
	Long: `Parse runs a single template file through grammar detection, structure
extraction and block assembly, and prints the resulting document. Nothing
is written to the output tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	category, _ := cmd.Flags().GetString("category")
	if category == "" {
		category = filepath.Base(filepath.Dir(path))
	}
	slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	doc := convert.New(cfg.Conversion, appLog).ConvertSource(types.ArticleSource{
		Category: category,
		Slug:     slug,
		Text:     string(data),
	})
	for _, w := range doc.Article.Warnings {
		appLog.Warn("source recovered", logger.String("file", path), logger.String("detail", w))
	}

	format, _ := cmd.Flags().GetString("format")
	return writeDocument(cmd, doc, format)
}

func writeDocument(cmd *cobra.Command, doc types.Document, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json", "":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}

func init() {
	parseCmd.Flags().String("format", "json", "output format: json or yaml")
	parseCmd.Flags().String("category", "", "article category (default: parent directory name)")
	parseCmd.Flags().String("separator", "", "paragraph separator (default \"|\")")

	bindFlag(parseCmd.Flags().Lookup("separator"), "conversion.parse.paragraph_separator")

	rootCmd.AddCommand(parseCmd)
}
