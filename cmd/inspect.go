package main

import (
	"fmt"

	"bookscraper/adapters"

	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [url]",
		Short: "Fetches one catalog page and reports what the selectors match.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageURL := a.config.BaseURL
			if len(args) == 1 {
				pageURL = args[0]
			}

			adapter := adapters.NewBooksAdapter(a.config, a.logger)
			defer adapter.Close()

			html, err := adapter.GetPageContent(cmd.Context(), pageURL)
			if err != nil {
				return fmt.Errorf("failed to get page: %w", err)
			}

			doc, err := adapter.ParseHTML(html)
			if err != nil {
				return fmt.Errorf("failed to parse HTML: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Page: %s (%d bytes)\n", pageURL, len(html))
			for _, selector := range []string{
				adapters.ItemSelector,
				adapters.ItemSelector + " " + adapters.TitleSelector,
				adapters.ItemSelector + " " + adapters.PriceSelector,
				adapters.ItemSelector + " " + adapters.AvailabilitySelector,
				adapters.ItemSelector + " " + adapters.RatingSelector,
				adapters.NextPageSelector,
			} {
				fmt.Fprintf(out, "  %-40s %d\n", selector, doc.Find(selector).Length())
			}

			next, err := adapter.NextPageURL(doc, pageURL)
			if err != nil {
				fmt.Fprintf(out, "Next page: invalid (%v)\n", err)
			} else if next == "" {
				fmt.Fprintln(out, "Next page: none")
			} else {
				fmt.Fprintf(out, "Next page: %s\n", next)
			}
			return nil
		},
	}
}
