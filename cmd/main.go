package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"bookscraper/internal/types"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if stage := types.Stage(err); stage != "unknown" {
			fmt.Fprintf(os.Stderr, "bookscraper: %s stage failed: %v\n", stage, err)
		} else {
			fmt.Fprintf(os.Stderr, "bookscraper: %v\n", err)
		}
		os.Exit(1)
	}
}
