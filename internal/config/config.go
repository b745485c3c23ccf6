// Package config loads and validates extractor configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Sitemap SitemapConfig `mapstructure:"sitemap"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// SitemapConfig locates the sitemap and selects store pages within it.
type SitemapConfig struct {
	Path        string `mapstructure:"path"`
	StoreMarker string `mapstructure:"store_marker"`
}

// CrawlerConfig governs the worker pool.
type CrawlerConfig struct {
	Workers int  `mapstructure:"workers"`
	Verbose bool `mapstructure:"verbose"`
}

// HTTPConfig configures page requests and the 429 retry policy.
type HTTPConfig struct {
	UserAgent        string  `mapstructure:"user_agent"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds"`
	MaxAttempts      int     `mapstructure:"max_attempts"`
	BackoffInitialMs int     `mapstructure:"backoff_initial_ms"`
	BackoffJitterMs  int     `mapstructure:"backoff_jitter_ms"`
	RateLimitRPS     float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst   int     `mapstructure:"rate_limit_burst"`
}

// OutputConfig selects where the JSON document goes. An empty path means stdout.
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// MetricsConfig enables the Prometheus endpoint when ListenAddr is set.
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"sitemap":      "sitemap.path",
	"workers":      "crawler.workers",
	"verbose":      "crawler.verbose",
	"output":       "output.path",
	"metrics-addr": "metrics.listen_addr",
}

// Load builds a Config from defaults, an optional file, STORES_* environment
// variables and, highest precedence, any flags in flags that were set.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STORES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sitemap.path", "locations.ampol.com.au-sitemap.xml.xml")
	v.SetDefault("sitemap.store_marker", "ampol.com.au/en/")
	v.SetDefault("crawler.workers", 8)
	v.SetDefault("crawler.verbose", false)
	v.SetDefault("http.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
		"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.max_attempts", 5)
	v.SetDefault("http.backoff_initial_ms", 2000)
	v.SetDefault("http.backoff_jitter_ms", 1000)
	v.SetDefault("http.rate_limit_rps", 0)
	v.SetDefault("http.rate_limit_burst", 1)
	v.SetDefault("output.path", "")
	v.SetDefault("logging.development", true)
	v.SetDefault("metrics.listen_addr", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Sitemap.Path) == "" {
		return fmt.Errorf("sitemap.path must be set")
	}
	if c.Sitemap.StoreMarker == "" {
		return fmt.Errorf("sitemap.store_marker must be set")
	}
	if c.Crawler.Workers <= 0 {
		return fmt.Errorf("crawler.workers must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxAttempts <= 0 {
		return fmt.Errorf("http.max_attempts must be > 0")
	}
	if c.HTTP.BackoffInitialMs <= 0 {
		return fmt.Errorf("http.backoff_initial_ms must be > 0")
	}
	if c.HTTP.BackoffJitterMs < 0 {
		return fmt.Errorf("http.backoff_jitter_ms must be >= 0")
	}
	if c.HTTP.RateLimitRPS < 0 {
		return fmt.Errorf("http.rate_limit_rps must be >= 0")
	}
	return nil
}

// Timeout is the per-request HTTP timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// BackoffInitial is the wait before the first retry of a rate-limited page.
func (c Config) BackoffInitial() time.Duration {
	return time.Duration(c.HTTP.BackoffInitialMs) * time.Millisecond
}

// BackoffJitter bounds the random offset added to every backoff.
func (c Config) BackoffJitter() time.Duration {
	return time.Duration(c.HTTP.BackoffJitterMs) * time.Millisecond
}
