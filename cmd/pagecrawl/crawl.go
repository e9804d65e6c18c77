package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amosWeiskopf/pagecrawl/pkg/analyzer"
	"github.com/amosWeiskopf/pagecrawl/pkg/crawler"
	"github.com/amosWeiskopf/pagecrawl/pkg/fetcher"
	"github.com/amosWeiskopf/pagecrawl/pkg/reporter"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [URL]",
		Short: "Crawl a website and report what was found",
		Long: `Crawl visits URL, then follows up to --max-breadth new internal links on
every page until --max-depth levels (counting URL itself) have been visited.

Examples:
  pagecrawl crawl https://example.com
  pagecrawl crawl --max-breadth 2 --max-depth 3 --format json https://example.com
  pagecrawl crawl --insecure=false --timeout 10s --output report.md https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd, v, args[0])
		},
	}

	cmd.Flags().Int("max-breadth", 3, "Maximum new links followed per page")
	cmd.Flags().Int("max-depth", 2, "Maximum depth, counting the start page")
	cmd.Flags().String("format", reporter.FormatMarkdown, "Report format (json, yaml, markdown)")
	cmd.Flags().String("output", "", "Output file for the report (default stdout)")
	cmd.Flags().Bool("insecure", true, "Skip TLS certificate and hostname verification")
	cmd.Flags().String("user-agent", fetcher.DefaultUserAgent, "User-Agent header sent with every request")
	cmd.Flags().Duration("timeout", 0, "Per-request timeout, 0 for none")

	bindings := map[string]string{
		"crawler.max_breadth":          "max-breadth",
		"crawler.max_depth":            "max-depth",
		"crawler.insecure_skip_verify": "insecure",
		"crawler.user_agent":           "user-agent",
		"crawler.timeout":              "timeout",
		"report.format":                "format",
		"report.output":                "output",
	}
	for key, flag := range bindings {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}

	return cmd
}

func runCrawl(cmd *cobra.Command, v *viper.Viper, startURL string) (err error) {
	cfg, err := loadConfig(cmd, v)
	if err != nil {
		return err
	}
	if err := validateURL(startURL); err != nil {
		return err
	}
	if err := validateBounds(cfg.Crawler.MaxBreadth, cfg.Crawler.MaxDepth, cfg.Crawler.MaxExpectedVisits); err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	if cfg.Crawler.InsecureSkipVerify {
		log.Warn("TLS certificate verification is disabled")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := crawler.NewWithOptions(crawler.Options{
		UserAgent:          cfg.Crawler.UserAgent,
		Timeout:            cfg.Crawler.Timeout,
		InsecureSkipVerify: cfg.Crawler.InsecureSkipVerify,
	}, log)

	// A cancelled crawl still carries the pages visited so far; report them.
	result, crawlErr := c.Crawl(ctx, startURL, cfg.Crawler.MaxBreadth, cfg.Crawler.MaxDepth)

	audit := analyzer.NewWithConfig(&analyzer.Config{TopDomains: cfg.Report.TopDomains}).Analyze(result)

	var out io.Writer = cmd.OutOrStdout()
	if cfg.Report.Output != "" {
		f, ferr := os.Create(cfg.Report.Output)
		if ferr != nil {
			return fmt.Errorf("failed to create report file: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to write report: %w", cerr)
			}
		}()
		out = f
	}

	if err := reporter.Render(out, result, audit, cfg.Report.Format); err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}
	if cfg.Report.Output != "" {
		log.Infof("Report saved to %s", cfg.Report.Output)
	}

	if crawlErr != nil {
		return fmt.Errorf("crawl interrupted after %d pages: %w", result.Stats.Pages, crawlErr)
	}
	return nil
}
