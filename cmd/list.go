package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list [--limit N]",
		Short: "Prints the stored books.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bookStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer bookStore.Close()

			books, err := bookStore.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"#", "Title", "Price", "Rating", "In stock"})
			for i, b := range books {
				t.AppendRow(table.Row{i + 1, b.Title, b.Price.StringFixed(2), b.Rating, b.InStock})
			}
			t.AppendFooter(table.Row{"", "Total", len(books)})
			t.SetStyle(table.StyleRounded)
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to print (0 = all)")
	return cmd
}
