// Package cmd defines and implements the CLI commands for the storeextract executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/store-locations/internal/output"
	"github.com/JakeFAU/store-locations/internal/pipeline"
	"github.com/JakeFAU/store-locations/internal/sitemap"
)

var (
	errSitemapMissing = errors.New("sitemap file not found")
	errNoStoreURLs    = errors.New("no store URLs found in sitemap")
)

// newExtractCmd creates the 'extract' subcommand, identical to running the root command.
func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Fetch every store page in the sitemap and print the store records",
		Long: `Reads the sitemap, keeps the store-detail URLs, fetches them with a
bounded worker pool (retrying 429 responses with exponential backoff) and writes
the extracted stores, sorted by ref, as JSON. Progress and the failure summary go
to stderr.`,
		RunE: runExtractCommand,
	}
}

func runExtractCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := appInstance.GetConfig()
	logger := appInstance.GetLogger()

	urls, err := loadStoreURLs(cfg.Sitemap.Path, cfg.Sitemap.StoreMarker)
	if err != nil {
		return err
	}
	if cfg.Crawler.Verbose {
		logger.Info("found stores in sitemap", zap.Int("count", len(urls)), zap.String("sitemap", cfg.Sitemap.Path))
	}

	engine := pipeline.New(
		pipeline.Config{Workers: cfg.Crawler.Workers, Verbose: cfg.Crawler.Verbose},
		appInstance.GetPageFetcher(),
		appInstance.GetMetrics(),
		logger.Named("pipeline"),
	)
	result, err := engine.Run(cmd.Context(), urls)
	if err != nil {
		return fmt.Errorf("run extraction: %w", err)
	}

	if err := pipeline.WriteSummary(cmd.ErrOrStderr(), result); err != nil {
		logger.Warn("failed to write summary", zap.Error(err))
	}
	if err := writeResult(cmd, cfg.Output.Path, result); err != nil {
		return err
	}

	logger.Debug("extraction finished",
		zap.Int("stores", len(result.Records)),
		zap.Int("failed", len(result.Failures)),
		zap.Duration("elapsed", result.Elapsed),
	)
	return nil
}

// loadStoreURLs turns the startup failures into the errors reported to the operator.
func loadStoreURLs(path, marker string) ([]string, error) {
	urls, err := sitemap.ExtractStoreURLs(path, marker)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %q", errSitemapMissing, path)
	case err != nil:
		return nil, fmt.Errorf("error parsing sitemap: %w", err)
	case len(urls) == 0:
		return nil, errNoStoreURLs
	}
	return urls, nil
}

func writeResult(cmd *cobra.Command, path string, result pipeline.Result) error {
	if path == "" {
		if err := output.WriteJSON(cmd.OutOrStdout(), result.Records); err != nil {
			return fmt.Errorf("write stores: %w", err)
		}
		return nil
	}
	written, err := output.WriteFile(contextOrBackground(cmd), path, result.Records)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d stores to %s (%s)\n", len(result.Records), written.URI, written.Checksum)
	return nil
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
