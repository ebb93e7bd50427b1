// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-engine/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert every source template into AIR and block files",
	Long: `Convert walks sources/<category>/<slug>.<ext>, extracts each article's
structure, and writes output/air/<category>/<slug>.yaml and
output/blocks/<category>/<slug>.json. Sources whose outputs are newer
than the source are skipped unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		c := convert.New(cfg.Conversion, appLog)
		summary, err := c.ConvertAll(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return fmt.Errorf("%d source(s) failed conversion", summary.Failed)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().String("sources-dir", "sources", "directory of <category>/<slug>.<ext> source files")
	convertCmd.Flags().String("output-dir", "output", "base directory for output (contains air/, blocks/)")
	convertCmd.Flags().Int("workers", 4, "number of sources converted concurrently")
	convertCmd.Flags().Bool("force", false, "re-convert sources whose outputs are up to date")

	bindFlag(convertCmd.Flags().Lookup("sources-dir"), "conversion.sources_dir")
	bindFlag(convertCmd.Flags().Lookup("output-dir"), "conversion.output_dir")
	bindFlag(convertCmd.Flags().Lookup("workers"), "conversion.workers")
	bindFlag(convertCmd.Flags().Lookup("force"), "conversion.force")

	rootCmd.AddCommand(convertCmd)
}
