// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-engine/internal/index"
	"github.com/pdiddy/article-engine/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the article index (store, retrieve, export)",
	Long: `Index manages a local SQLite catalogue of converted articles. Use
subcommands to ingest AIR files, query them, or export the catalogue.`,
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest converted articles into the index",
	Long: `Store reads output/air/ and output/blocks/, ingests every article into
a SQLite database with FTS5 indexing, and writes an export file.
Unchanged articles are skipped on subsequent runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := store.Ingest(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d article(s) failed indexing", summary.Failed)
		}
		return nil
	},
}

// --- retrieve subcommand ---

var indexRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the index with full-text search and filters",
	Long: `Retrieve searches article titles and text using FTS5 full-text search,
structured filters (category, grammar, structured-only), or both.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := queryOptsFromFlags(cmd, args)
		if opts.IsEmpty() {
			return fmt.Errorf("query or filter required: provide a search query, --category, --grammar, or --structured")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		results, err := store.Retrieve(cmd.Context(), opts)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return formatRetrieveOutput(cmd, results, jsonOutput)
	},
}

func formatRetrieveOutput(cmd *cobra.Command, results []index.Article, jsonOutput bool) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintf(out, "%-4s  %-30s  %-40s  %-10s  %s\n", "Rank", "Article", "Title", "Grammar", "Blocks")
	fmt.Fprintln(out, strings.Repeat("-", 100))

	for i, r := range results {
		fmt.Fprintf(out, "%-4d  %-30s  %-40s  %-10s  %d\n",
			i+1, clip(r.Category+"/"+r.Slug, 30), clip(r.Title, 40), r.Grammar, r.BlockCount)
	}

	fmt.Fprintf(out, "\n%d results\n", len(results))
	return nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index to YAML or JSON",
	Long: `Export writes the full index (or a filtered subset) to
output/index/export.yaml or export.json. Supports the same filter flags
as retrieve for partial exports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		opts := queryOptsFromFlags(cmd, args)

		switch format {
		case "yaml", "":
			err = store.ExportYAML(cmd.Context(), opts)
			format = "yaml"
		case "json":
			err = store.ExportJSON(cmd.Context(), opts)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", store.ExportPath(format))
		return nil
	},
}

// --- shared helpers ---

func openStore() (*index.Store, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return index.NewStore(cfg.Index, appLog)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	category, _ := cmd.Flags().GetString("category")
	grammar, _ := cmd.Flags().GetString("grammar")
	structured, _ := cmd.Flags().GetBool("structured")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Query:          queryText,
		Category:       category,
		Grammar:        types.Grammar(grammar),
		StructuredOnly: structured,
		MaxResults:     limit,
	}
}

func init() {
	indexCmd.PersistentFlags().String("output-dir", "output", "base directory for output (contains air/, blocks/, index/)")
	indexCmd.PersistentFlags().Int("max-results", 20, "default maximum number of query results")
	bindFlag(indexCmd.PersistentFlags().Lookup("output-dir"), "index.output_dir")
	bindFlag(indexCmd.PersistentFlags().Lookup("max-results"), "index.max_results")

	for _, c := range []*cobra.Command{indexRetrieveCmd, indexExportCmd} {
		c.Flags().String("query", "", "full-text search query")
		c.Flags().String("category", "", "filter by category")
		c.Flags().String("grammar", "", "filter by source grammar: named, positional, raw")
		c.Flags().Bool("structured", false, "only articles with structured content")
		c.Flags().Int("limit", 0, "maximum results (0 = use default)")
	}
	indexRetrieveCmd.Flags().Bool("json", false, "output results as JSON")
	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexRetrieveCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
