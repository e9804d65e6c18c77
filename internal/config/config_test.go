package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/pagecrawl/pkg/fetcher"
)

// chdirTemp moves into an empty directory so no stray pagecrawl.yaml is found.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Crawler.MaxBreadth)
	assert.Equal(t, 2, cfg.Crawler.MaxDepth)
	assert.Equal(t, 20, cfg.Crawler.MaxExpectedVisits)
	assert.Equal(t, fetcher.DefaultUserAgent, cfg.Crawler.UserAgent)
	assert.Equal(t, time.Duration(0), cfg.Crawler.Timeout)
	assert.True(t, cfg.Crawler.InsecureSkipVerify)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "markdown", cfg.Report.Format)
	assert.Equal(t, 10, cfg.Report.TopDomains)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
crawler:
  max_breadth: 4
  max_depth: 3
  timeout: 5s
  insecure_skip_verify: false
logging:
  level: debug
  format: json
report:
  format: yaml
`), 0o644))

	cfg, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Crawler.MaxBreadth)
	assert.Equal(t, 3, cfg.Crawler.MaxDepth)
	assert.Equal(t, 5*time.Second, cfg.Crawler.Timeout)
	assert.False(t, cfg.Crawler.InsecureSkipVerify)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "yaml", cfg.Report.Format)
	// untouched keys keep their defaults
	assert.Equal(t, 20, cfg.Crawler.MaxExpectedVisits)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Env(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PAGECRAWL_CRAWLER_MAX_DEPTH", "5")
	t.Setenv("PAGECRAWL_REPORT_FORMAT", "json")

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Crawler.MaxDepth)
	assert.Equal(t, "json", cfg.Report.Format)
}

func TestLoad_ExplicitOverride(t *testing.T) {
	chdirTemp(t)
	v := viper.New()
	v.Set("crawler.max_breadth", 7)

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Crawler.MaxBreadth)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Crawler: CrawlerConfig{MaxBreadth: 1, MaxDepth: 1, MaxExpectedVisits: 20},
			Logging: LoggingConfig{Level: "info", Format: "console"},
			Report:  ReportConfig{Format: "markdown"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero breadth and depth", mutate: func(c *Config) { c.Crawler.MaxBreadth, c.Crawler.MaxDepth = 0, 0 }},
		{name: "negative breadth", mutate: func(c *Config) { c.Crawler.MaxBreadth = -1 }, wantErr: true},
		{name: "negative depth", mutate: func(c *Config) { c.Crawler.MaxDepth = -1 }, wantErr: true},
		{name: "no visit ceiling", mutate: func(c *Config) { c.Crawler.MaxExpectedVisits = 0 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Crawler.Timeout = -time.Second }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "bad report format", mutate: func(c *Config) { c.Report.Format = "html" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
