package analyzer

import (
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/amosWeiskopf/pagecrawl/internal/models"
)

// Severities, most urgent first.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

var severityOrder = map[string]int{SeverityHigh: 0, SeverityMedium: 1, SeverityLow: 2}

// Analyzer audits crawl results for broken and empty pages
type Analyzer struct {
	config *Config
}

// Config holds analyzer configuration
type Config struct {
	// TopDomains limits the external domain ranking; zero or less keeps all.
	TopDomains int
}

// New creates a new Analyzer instance
func New() *Analyzer {
	return &Analyzer{
		config: &Config{TopDomains: 10},
	}
}

// NewWithConfig creates an Analyzer with custom configuration
func NewWithConfig(config *Config) *Analyzer {
	if config == nil {
		return New()
	}
	return &Analyzer{config: config}
}

// Analyze builds the audit report for a crawl
func (a *Analyzer) Analyze(result *models.CrawlResult) *models.AuditReport {
	report := &models.AuditReport{
		Findings:           []models.Finding{},
		TopExternalDomains: []models.DomainCount{},
	}
	if result == nil {
		return report
	}

	report.Findings = a.generateFindings(result.Visits)
	report.TopExternalDomains = TopExternalDomains(result.Visits, a.config.TopDomains)
	return report
}

func (a *Analyzer) generateFindings(visits []models.PageVisit) []models.Finding {
	findings := []models.Finding{}

	var failed, broken, untitled, wordless []string
	titles := make(map[string][]string)

	for _, v := range visits {
		if v.Failed() {
			failed = append(failed, v.URL)
			continue
		}
		if v.StatusCode >= 400 {
			broken = append(broken, v.URL)
		}
		if strings.TrimSpace(v.Title) == "" {
			untitled = append(untitled, v.URL)
		} else {
			titles[v.Title] = append(titles[v.Title], v.URL)
		}
		if len(v.Words) == 0 {
			wordless = append(wordless, v.URL)
		}
	}

	if len(failed) > 0 {
		findings = append(findings, models.Finding{
			Category:    "Availability",
			Type:        "Failed Fetch",
			Description: fmt.Sprintf("%d pages could not be fetched or parsed", len(failed)),
			Severity:    SeverityHigh,
			URLs:        failed,
		})
	}

	if len(broken) > 0 {
		findings = append(findings, models.Finding{
			Category:    "Availability",
			Type:        "Error Status",
			Description: fmt.Sprintf("%d pages answered with an HTTP error status", len(broken)),
			Severity:    SeverityHigh,
			URLs:        broken,
		})
	}

	if len(untitled) > 0 {
		findings = append(findings, models.Finding{
			Category:    "Content",
			Type:        "Missing Title",
			Description: fmt.Sprintf("%d pages have no title", len(untitled)),
			Severity:    SeverityMedium,
			URLs:        untitled,
		})
	}

	// Map order is random; report duplicates alphabetically.
	dupes := make([]string, 0, len(titles))
	for title, urls := range titles {
		if len(urls) > 1 {
			dupes = append(dupes, title)
		}
	}
	sort.Strings(dupes)
	for _, title := range dupes {
		findings = append(findings, models.Finding{
			Category:    "Content",
			Type:        "Duplicate Title",
			Description: fmt.Sprintf("Title '%s' used on %d pages", title, len(titles[title])),
			Severity:    SeverityMedium,
			URLs:        titles[title],
		})
	}

	if len(wordless) > 0 {
		findings = append(findings, models.Finding{
			Category:    "Content",
			Type:        "No Words",
			Description: fmt.Sprintf("%d pages have no words in content elements", len(wordless)),
			Severity:    SeverityLow,
			URLs:        wordless,
		})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return severityOrder[findings[i].Severity] < severityOrder[findings[j].Severity]
	})

	return findings
}

// TopExternalDomains counts distinct external links per registrable domain
// (eTLD+1), most linked first with ties broken by name. n <= 0 returns all.
func TopExternalDomains(visits []models.PageVisit, n int) []models.DomainCount {
	seen := make(map[string]struct{})
	counts := make(map[string]int)

	for _, v := range visits {
		for _, link := range v.ExternalLinks {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}

			domain := registrableDomain(link)
			if domain == "" {
				continue
			}
			counts[domain]++
		}
	}

	ranked := make([]models.DomainCount, 0, len(counts))
	for domain, count := range counts {
		ranked = append(ranked, models.DomainCount{Domain: domain, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Domain < ranked[j].Domain
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// registrableDomain returns the eTLD+1 of link's host, the bare host when it
// has none (IPs, localhost), or "" when link has no host.
func registrableDomain(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	if net.ParseIP(host) != nil {
		return host
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
