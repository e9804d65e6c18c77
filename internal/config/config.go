package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/amosWeiskopf/pagecrawl/pkg/fetcher"
)

// EnvPrefix is prepended to every environment override, e.g. PAGECRAWL_CRAWLER_MAX_DEPTH.
const EnvPrefix = "PAGECRAWL"

// Config holds all application configuration
type Config struct {
	// Crawler configuration
	Crawler CrawlerConfig `mapstructure:"crawler"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`

	// Report configuration
	Report ReportConfig `mapstructure:"report"`
}

// CrawlerConfig holds crawler-specific configuration
type CrawlerConfig struct {
	MaxBreadth        int           `mapstructure:"max_breadth"`
	MaxDepth          int           `mapstructure:"max_depth"`
	MaxExpectedVisits int           `mapstructure:"max_expected_visits"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	// InsecureSkipVerify turns off TLS certificate and hostname verification.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "console" or "json"
	OutputPath string `mapstructure:"output_path"`
}

// ReportConfig holds report output configuration
type ReportConfig struct {
	Format     string `mapstructure:"format"` // "json", "yaml" or "markdown"
	Output     string `mapstructure:"output"`
	TopDomains int    `mapstructure:"top_domains"`
}

// Load reads configuration from configPath (or the default search paths when
// empty), the environment and v's bound flags. A nil v uses a fresh instance.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetConfigName("pagecrawl")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.pagecrawl")
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is not an error, we'll use defaults and env
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// SetDefaults sets default configuration values
func SetDefaults(v *viper.Viper) {
	// Crawler defaults
	v.SetDefault("crawler.max_breadth", 3)
	v.SetDefault("crawler.max_depth", 2)
	v.SetDefault("crawler.max_expected_visits", 20)
	v.SetDefault("crawler.user_agent", fetcher.DefaultUserAgent)
	v.SetDefault("crawler.timeout", "0s")
	v.SetDefault("crawler.insecure_skip_verify", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output_path", "stderr")

	// Report defaults
	v.SetDefault("report.format", "markdown")
	v.SetDefault("report.output", "")
	v.SetDefault("report.top_domains", 10)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Crawler.MaxBreadth < 0 {
		return fmt.Errorf("crawler.max_breadth must not be negative")
	}
	if c.Crawler.MaxDepth < 0 {
		return fmt.Errorf("crawler.max_depth must not be negative")
	}
	if c.Crawler.MaxExpectedVisits <= 0 {
		return fmt.Errorf("crawler.max_expected_visits must be positive")
	}
	if c.Crawler.Timeout < 0 {
		return fmt.Errorf("crawler.timeout must not be negative")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	switch c.Report.Format {
	case "json", "yaml", "markdown":
	default:
		return fmt.Errorf("report.format must be json, yaml or markdown, got %q", c.Report.Format)
	}

	return nil
}
