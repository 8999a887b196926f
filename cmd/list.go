package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/go-i2p/weblog/content"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the published posts of a locale and any files that were skipped",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, locales, err := repository(c)
		if err != nil {
			return err
		}
		loc := locales.DefaultLocale()
		if c.Locale != "" {
			if loc, err = locales.Parse(c.Locale); err != nil {
				return err
			}
		}
		listing, err := repo.List(loc)
		if err != nil {
			return err
		}
		printListing(cmd.OutOrStdout(), listing, content.Filter{Tag: c.Tag})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("locale", "", "locale to list (default is the default locale)")
	listCmd.Flags().String("tag", "", "only list posts carrying this tag")
}

func printListing(w io.Writer, listing *content.Listing, f content.Filter) {
	posts := f.Apply(listing.Posts)
	fmt.Fprintf(w, "%s: %d posts\n", listing.Locale, len(posts))
	for _, p := range posts {
		date := p.Date
		if date == "" {
			date = "-"
		}
		fmt.Fprintf(w, "  %-10s  %-24s  %s  (%s)\n", date, p.Slug, p.Title, p.ReadingTime.Text)
	}
	for _, slug := range listing.Hidden {
		fmt.Fprintf(w, "hidden: %s\n", slug)
	}
	for _, s := range listing.Skipped {
		fmt.Fprintf(w, "skipped: %s: %s\n", s.File, s.Reason)
	}
}
