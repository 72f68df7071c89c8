package main

import (
	"context"
	"time"

	"bookscraper/extractor"
	"bookscraper/internal/config"
	"bookscraper/internal/store"
	"bookscraper/internal/types"
	"bookscraper/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	v          *viper.Viper
	configFile string
	verbose    bool
	httpOnly   bool

	config *types.Config
	logger *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	d := types.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "bookscraper",
		Short: "Scrapes the books.toscrape.com catalog into a local database.",
		Long: "Running bookscraper without a subcommand walks every catalog page, extracts\n" +
			"title, price, rating and availability for each book and stores them.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.scrape(cmd.Context())
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Optional YAML config file")
	flags.String("base-url", d.BaseURL, "Catalog start URL")
	flags.String("db", d.DatabaseDSN, "SQLite file path or postgres:// DSN")
	flags.Int("max-pages", d.MaxPages, "Maximum catalog pages to fetch (0 = until no next page)")
	flags.Duration("timeout", d.Timeout, "Per-page navigation timeout")
	flags.Duration("delay", d.RequestDelay, "Delay between page requests")
	flags.BoolVar(&a.httpOnly, "http-only", false, "Use plain HTTP requests instead of the headless browser")
	flags.BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	for key, name := range map[string]string{
		"base_url":  "base-url",
		"db":        "db",
		"max_pages": "max-pages",
		"timeout":   "timeout",
		"delay":     "delay",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	rootCmd.AddCommand(newListCmd(a), newExportCmd(a), newInspectCmd(a))
	return rootCmd
}

func (a *app) load() error {
	if a.httpOnly {
		a.v.Set("use_browser", false)
	}

	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.config = cfg
	a.logger = utils.NewLogger(a.verbose)
	return nil
}

func (a *app) openStore(ctx context.Context) (*store.BookStore, error) {
	return store.Open(ctx, a.config.DatabaseDSN, a.logger)
}

// scrape runs one full fetch, parse and store pass
func (a *app) scrape(ctx context.Context) (*types.RunSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, a.config.RunTimeout)
	defer cancel()

	bookStore, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer bookStore.Close()

	booksExtractor := extractor.NewBooksExtractor(a.config, a.logger)
	defer booksExtractor.Close()

	startTime := time.Now()
	summary, err := booksExtractor.Pipeline(bookStore).Run(ctx, a.config.BaseURL)
	if err != nil {
		a.logger.Errorf("Scrape failed at %s stage: %v", types.Stage(err), err)
		return nil, err
	}

	a.logger.Infof("Extraction completed in %v", time.Since(startTime))
	a.logger.Infof("Total pages processed: %d", summary.Pages)
	a.logger.Infof("Total books found: %d", summary.Books)
	a.logger.Infof("Total books stored: %d", summary.Stored)
	return summary, nil
}
