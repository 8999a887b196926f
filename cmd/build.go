package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	sitebuilder "github.com/go-i2p/weblog/builder"
	"github.com/go-i2p/weblog/logger"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build feeds, sitemap and locale indexes into the build directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, locales, err := repository(c)
		if err != nil {
			return err
		}
		sb := sitebuilder.Builder(c.Site(), repo, locales)
		report, err := sb.Build(c.BuildDir)
		if err != nil {
			logger.ErrorWithFields(logger.Log, "build failed", logger.Fields{"error": err.Error()})
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "build %s: %d files in %s\n", report.BuildID, len(report.Files), c.BuildDir)
		for _, loc := range locales.Locales() {
			r := report.Locales[loc]
			fmt.Fprintf(out, "  %s: %d posts, %d hidden, %d skipped\n", loc, r.Posts, r.Hidden, r.Skipped)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
