package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/pagecrawl/internal/config"
)

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><head><title>Home</title></head><body>
			<p>Welcome home</p>
			<a href="/a">A</a><a href="/b">B</a><a href="https://github.com/x">GH</a>
		</body></html>`)
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>A</title></head><body><p>page a</p></body></html>`)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>B</title></head><body><p>page b</p></body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCrawlCommand_JSON(t *testing.T) {
	srv := newSite(t)

	out, _, err := execute(t, "crawl", "--log-level", "error",
		"--max-breadth", "2", "--max-depth", "2", "--format", "json", srv.URL)
	require.NoError(t, err)

	var report struct {
		Crawl struct {
			Visits []struct {
				URL        string `json:"url"`
				StatusCode int    `json:"status_code"`
			} `json:"visits"`
			Stats struct {
				Pages int `json:"pages"`
			} `json:"stats"`
		} `json:"crawl"`
		Audit struct {
			TopExternalDomains []struct {
				Domain string `json:"domain"`
			} `json:"top_external_domains"`
		} `json:"audit"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, 3, report.Crawl.Stats.Pages)
	require.Len(t, report.Crawl.Visits, 3)
	assert.Equal(t, srv.URL, report.Crawl.Visits[0].URL)
	assert.Equal(t, srv.URL+"/a", report.Crawl.Visits[1].URL)
	assert.Equal(t, srv.URL+"/b", report.Crawl.Visits[2].URL)
	require.Len(t, report.Audit.TopExternalDomains, 1)
	assert.Equal(t, "github.com", report.Audit.TopExternalDomains[0].Domain)
}

func TestCrawlCommand_OutputFile(t *testing.T) {
	srv := newSite(t)
	path := filepath.Join(t.TempDir(), "report.md")

	out, _, err := execute(t, "crawl", "--log-level", "error",
		"--max-depth", "1", "--output", path, srv.URL)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Crawl Report")
	assert.Contains(t, string(data), srv.URL)
}

func TestCrawlCommand_ConfigFile(t *testing.T) {
	srv := newSite(t)
	path := filepath.Join(t.TempDir(), "pagecrawl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
crawler:
  max_breadth: 1
  max_depth: 2
logging:
  level: error
report:
  format: yaml
`), 0o644))

	out, _, err := execute(t, "crawl", "--config", path, srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "crawl:")
	assert.Contains(t, out, "pages: 2")
}

func TestCrawlCommand_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "relative url", args: []string{"crawl", "example.com"}, want: "scheme"},
		{name: "too many visits", args: []string{"crawl", "--max-breadth", "3", "--max-depth", "4", "https://example.com"}, want: "limit is 20"},
		{name: "negative depth", args: []string{"crawl", "--max-depth=-1", "https://example.com"}, want: "max_depth"},
		{name: "bad format", args: []string{"crawl", "--format", "html", "https://example.com"}, want: "report.format"},
		{name: "bad log level", args: []string{"crawl", "--log-level", "loud", "--max-depth", "0", "https://example.com"}, want: "log level"},
		{name: "missing url", args: []string{"crawl"}, want: "arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExpectedCommand(t *testing.T) {
	out, stderr, err := execute(t, "expected", "--max-breadth", "2", "--max-depth", "3")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
	assert.Empty(t, stderr)

	out, stderr, err = execute(t, "expected", "--max-breadth", "3", "--max-depth", "4")
	require.NoError(t, err)
	assert.Equal(t, "40\n", out)
	assert.True(t, strings.Contains(stderr, "limit of 20"))

	_, _, err = execute(t, "expected", "--max-depth=-2")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagecrawl.log")

	log, closeLog, err := newLogger(config.LoggingConfig{Level: "info", Format: "json", OutputPath: path})
	require.NoError(t, err)
	log.Info("hello")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)

	_, _, err = newLogger(config.LoggingConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}
