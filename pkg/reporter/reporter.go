package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"gopkg.in/yaml.v3"

	"github.com/amosWeiskopf/pagecrawl/internal/models"
)

// Supported output formats.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// Formats lists every format Render accepts.
var Formats = []string{FormatJSON, FormatYAML, FormatMarkdown}

// Report is the document written for every format
type Report struct {
	Crawl *models.CrawlResult `json:"crawl" yaml:"crawl"`
	Audit *models.AuditReport `json:"audit,omitempty" yaml:"audit,omitempty"`
}

// Reporter handles report generation in various formats
type Reporter struct {
	output io.Writer
}

// New creates a Reporter writing to w
func New(w io.Writer) *Reporter {
	return &Reporter{output: w}
}

// Render writes result and its audit to w in the given format.
func Render(w io.Writer, result *models.CrawlResult, audit *models.AuditReport, format string) error {
	return New(w).Write(result, audit, format)
}

// Write creates a report in the specified format. audit may be nil.
func (r *Reporter) Write(result *models.CrawlResult, audit *models.AuditReport, format string) error {
	if result == nil {
		return fmt.Errorf("no crawl result to report")
	}
	report := &Report{Crawl: result, Audit: audit}

	switch format {
	case FormatJSON:
		return r.writeJSON(report)
	case FormatYAML:
		return r.writeYAML(report)
	case FormatMarkdown:
		return r.writeMarkdown(report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (r *Reporter) writeJSON(report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (r *Reporter) writeYAML(report *Report) error {
	enc := yaml.NewEncoder(r.output)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return enc.Close()
}

func (r *Reporter) writeMarkdown(report *Report) error {
	md := markdown.NewMarkdown(r.output)
	result := report.Crawl

	md.H1("Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Start URL", cell(result.StartURL)},
			{"Max Breadth", strconv.Itoa(result.MaxBreadth)},
			{"Max Depth", strconv.Itoa(result.MaxDepth)},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", result.Duration.String()},
		},
	})
	md.PlainText("")

	writeAggregate(md, result.Stats)
	writeStatuses(md, result.Stats.StatusCodes)
	writePages(md, result.Visits)

	if report.Audit != nil {
		writeFindings(md, report.Audit.Findings)
		writeDomains(md, report.Audit.TopExternalDomains)
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeAggregate(md *markdown.Markdown, stats models.AggregateStats) {
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Pages Crawled", strconv.Itoa(stats.Pages)},
			{"Unique Images", strconv.Itoa(stats.UniqueImages)},
			{"Unique Internal Links", strconv.Itoa(stats.UniqueInternalLinks)},
			{"Unique External Links", strconv.Itoa(stats.UniqueExternalLinks)},
			{"Average Page Load (s)", LoadTime(stats.AverageLoadTime)},
			{"Average Word Count", strconv.Itoa(stats.AverageWordCount)},
			{"Average Title Length", strconv.Itoa(stats.AverageTitleLength)},
		},
	})
	md.PlainText("")
}

func writeStatuses(md *markdown.Markdown, statuses []models.VisitStatus) {
	md.H2("Visited Pages")
	md.PlainText("")
	if len(statuses) == 0 {
		md.PlainText("No pages were visited.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{cell(s.URL), Status(s.StatusCode)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writePages(md *markdown.Markdown, visits []models.PageVisit) {
	if len(visits) == 0 {
		return
	}

	md.H2("Page Details")
	md.PlainText("")

	rows := make([][]string, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, []string{
			cell(v.URL),
			cell(v.Title),
			strconv.Itoa(len(v.Words)),
			strconv.Itoa(len(v.Images)),
			strconv.Itoa(len(v.InternalLinks)),
			strconv.Itoa(len(v.ExternalLinks)),
			LoadTime(v.LoadTime),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Words", "Images", "Internal", "External", "Load (s)"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeFindings(md *markdown.Markdown, findings []models.Finding) {
	md.H2("Findings")
	md.PlainText("")
	if len(findings) == 0 {
		md.PlainText("No issues found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{
			f.Severity,
			f.Category,
			f.Type,
			cell(f.Description),
			cell(strings.Join(f.URLs, ", ")),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Category", "Type", "Description", "Pages"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeDomains(md *markdown.Markdown, domains []models.DomainCount) {
	md.H2("Top External Domains")
	md.PlainText("")
	if len(domains) == 0 {
		md.PlainText("No external links found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(domains))
	for _, d := range domains {
		rows = append(rows, []string{d.Domain, strconv.Itoa(d.Count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Domain", "Links"},
		Rows:   rows,
	})
	md.PlainText("")
}

// Status renders a status code, leaving failed visits blank.
func Status(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}

// LoadTime renders seconds rounded to three places.
func LoadTime(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

// cell keeps user-provided text from breaking table rows.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
