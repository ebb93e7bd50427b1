// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-engine/internal/publish"
	"github.com/pdiddy/article-engine/internal/secrets"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Send converted articles to the content store",
	Long: `Publish reads each converted article from output/ and creates or
updates the matching entry (by slug) in the content store collection.
Articles that fell back to raw content are skipped. The bearer token is
read from --token, ARTICLE_ENGINE_PUBLISH_TOKEN, or .secrets/content-store-token.

With --dry-run the request payloads are printed instead of sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		token, err := loadedSecrets.ContentStoreToken(cfg.Publish.Token)
		if err != nil && !cfg.Publish.DryRun {
			return fmt.Errorf("content store token required: set --token or .secrets/%s: %w",
				secrets.ContentStoreTokenFile, err)
		}
		cfg.Publish.Token = token

		p, err := publish.New(cfg.Publish, cmd.OutOrStdout(), appLog)
		if err != nil {
			return err
		}
		summary, err := p.PublishAll(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return fmt.Errorf("%d article(s) failed to publish", summary.Failed)
		}
		return nil
	},
}

func init() {
	publishCmd.Flags().String("base-url", "", "content store base URL")
	publishCmd.Flags().String("collection", "articles", "content store collection")
	publishCmd.Flags().String("token", "", "content store bearer token")
	publishCmd.Flags().String("output-dir", "output", "base directory for output (contains air/, blocks/)")
	publishCmd.Flags().Duration("delay", 0, "pause between entries (default from config, 500ms)")
	publishCmd.Flags().Bool("dry-run", false, "print payloads instead of sending them")

	bindFlag(publishCmd.Flags().Lookup("base-url"), "publish.base_url")
	bindFlag(publishCmd.Flags().Lookup("collection"), "publish.collection")
	bindFlag(publishCmd.Flags().Lookup("token"), "publish.token")
	bindFlag(publishCmd.Flags().Lookup("output-dir"), "publish.output_dir")
	bindFlag(publishCmd.Flags().Lookup("delay"), "publish.delay")
	bindFlag(publishCmd.Flags().Lookup("dry-run"), "publish.dry_run")

	rootCmd.AddCommand(publishCmd)
}
