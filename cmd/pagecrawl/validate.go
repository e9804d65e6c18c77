package main

import (
	"fmt"
	"net/url"

	"github.com/amosWeiskopf/pagecrawl/pkg/crawler"
)

// validateURL accepts absolute http and https URLs only.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return nil
}

// validateBounds rejects negative limits and crawls whose worst case exceeds
// maxExpected visits.
func validateBounds(maxBreadth, maxDepth, maxExpected int) error {
	if maxBreadth < 0 {
		return fmt.Errorf("max breadth must not be negative, got %d", maxBreadth)
	}
	if maxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", maxDepth)
	}
	if expected := crawler.ExpectedVisits(maxBreadth, maxDepth); expected > maxExpected {
		return fmt.Errorf("breadth %d and depth %d allow up to %d visits, limit is %d",
			maxBreadth, maxDepth, expected, maxExpected)
	}
	return nil
}
