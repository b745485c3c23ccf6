// Package app_test contains unit tests for the app package.
package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/store-locations/internal/app"
	"github.com/JakeFAU/store-locations/internal/config"
)

func TestNewAppWithDefaults(t *testing.T) {
	t.Parallel()

	a, err := app.NewApp(context.Background(), "", nil)
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.GetLogger())
	require.NotNil(t, a.GetMetrics())
	require.NotNil(t, a.GetPageFetcher())
	require.NotEmpty(t, a.RunID())
	require.Equal(t, 8, a.GetConfig().Crawler.Workers)
}

func TestNewAppRejectsMissingConfigFile(t *testing.T) {
	t.Parallel()

	_, err := app.NewApp(context.Background(), t.TempDir()+"/missing.yaml", nil)
	require.Error(t, err)
}

func TestFromConfigStartsAndStopsMetricsServer(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	cfg.Metrics.ListenAddr = "127.0.0.1:0"
	cfg.HTTP.RateLimitRPS = 5

	a, err := app.FromConfig(context.Background(), cfg)
	require.NoError(t, err)
	// Close must return once the server has shut down.
	a.Close()
}
