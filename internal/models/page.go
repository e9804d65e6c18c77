package models

import "time"

// PageVisit represents a single fetched (or attempted) page
type PageVisit struct {
	URL           string   `json:"url" yaml:"url"`
	Title         string   `json:"title" yaml:"title"`
	Words         []string `json:"words" yaml:"words"`
	Images        []string `json:"images" yaml:"images"`
	InternalLinks []string `json:"internal_links" yaml:"internal_links"`
	ExternalLinks []string `json:"external_links" yaml:"external_links"`
	LoadTime      float64  `json:"load_time" yaml:"load_time"`
	// StatusCode is 0 when the page could not be fetched or parsed.
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the visit carries no fetched data.
func (p PageVisit) Failed() bool {
	return p.StatusCode == 0
}

// VisitStatus pairs a visited URL with the status code it returned
type VisitStatus struct {
	URL        string `json:"url" yaml:"url"`
	StatusCode int    `json:"status_code" yaml:"status_code"`
}

// AggregateStats summarizes every visit of a crawl
type AggregateStats struct {
	Pages               int           `json:"pages" yaml:"pages"`
	UniqueImages        int           `json:"unique_images" yaml:"unique_images"`
	UniqueInternalLinks int           `json:"unique_internal_links" yaml:"unique_internal_links"`
	UniqueExternalLinks int           `json:"unique_external_links" yaml:"unique_external_links"`
	AverageLoadTime     float64       `json:"average_load_time" yaml:"average_load_time"`
	AverageWordCount    int           `json:"average_word_count" yaml:"average_word_count"`
	AverageTitleLength  int           `json:"average_title_length" yaml:"average_title_length"`
	StatusCodes         []VisitStatus `json:"status_codes" yaml:"status_codes"`
}

// CrawlResult contains the results of a crawl operation
type CrawlResult struct {
	StartURL   string         `json:"start_url" yaml:"start_url"`
	MaxBreadth int            `json:"max_breadth" yaml:"max_breadth"`
	MaxDepth   int            `json:"max_depth" yaml:"max_depth"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	Duration   time.Duration  `json:"duration" yaml:"duration"`
	Visits     []PageVisit    `json:"visits" yaml:"visits"`
	Stats      AggregateStats `json:"stats" yaml:"stats"`
}

// AuditReport holds the findings derived from a crawl result
type AuditReport struct {
	Findings           []Finding     `json:"findings" yaml:"findings"`
	TopExternalDomains []DomainCount `json:"top_external_domains" yaml:"top_external_domains"`
}

// Finding represents an issue observed on one or more visited pages
type Finding struct {
	Category    string   `json:"category" yaml:"category"`
	Type        string   `json:"type" yaml:"type"`
	Description string   `json:"description" yaml:"description"`
	Severity    string   `json:"severity" yaml:"severity"`
	URLs        []string `json:"urls,omitempty" yaml:"urls,omitempty"`
}

// DomainCount is the number of unique external links pointing at one registrable domain
type DomainCount struct {
	Domain string `json:"domain" yaml:"domain"`
	Count  int    `json:"count" yaml:"count"`
}
