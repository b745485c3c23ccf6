package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/JakeFAU/store-locations/internal/app"
	"github.com/JakeFAU/store-locations/internal/config"
	"github.com/JakeFAU/store-locations/internal/crawler"
	"github.com/JakeFAU/store-locations/internal/metrics"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands will use.
// This allows us to inject a fake app during tests.
type App interface {
	Close()
	GetConfig() config.Config
	GetLogger() *zap.Logger
	GetMetrics() *metrics.Metrics
	GetPageFetcher() *crawler.PageFetcher
}

// newApp is the application factory. It's a variable so tests can replace it.
var newApp = func(ctx context.Context, flags *pflag.FlagSet) (App, error) {
	return app.NewApp(ctx, cfgFile, flags)
}

// newRootCmd creates and configures the root command. Running it without a
// subcommand performs an extraction.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storeextract",
		Short: "Extract store locations from a retailer sitemap.",
		Long: `storeextract reads a local sitemap, fetches every store page it lists
and prints the JSON-LD store details (address, coordinates, opening hours and
services) as a single JSON document on stdout.`,
		SilenceUsage: true,

		// Build and inject the application before any subcommand runs.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context(), cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},

		RunE: runExtractCommand,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (YAML, TOML or JSON)")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.IntP("workers", "w", 8, "Number of parallel workers")
	flags.String("sitemap", "", "Path to the sitemap file (default locations.ampol.com.au-sitemap.xml.xml)")
	flags.StringP("output", "o", "", "Write the JSON document to this file instead of stdout")
	flags.String("metrics-addr", "", "Serve /metrics and /healthz on this address during the run")

	cmd.AddCommand(newExtractCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}
