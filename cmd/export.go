package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"bookscraper/internal/export"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export [--format json|yaml|csv] [--output <file>]",
		Short: "Writes the stored books to stdout or a file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bookStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer bookStore.Close()

			books, err := bookStore.List(cmd.Context(), 0)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := export.Write(w, format, books); err != nil {
				return err
			}
			if output != "" {
				a.logger.Infof("Results written to: %s", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format ("+strings.Join(export.Formats, ", ")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}
