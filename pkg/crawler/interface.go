package crawler

import (
	"time"

	"github.com/amosWeiskopf/pagecrawl/pkg/extractor"
)

// PageExtractor turns fetched content into an Extraction
type PageExtractor interface {
	// Extract parses content, classifying links against origin
	Extract(content []byte, origin string) (*extractor.Extraction, error)
}

// Options contains configuration for the default fetcher
type Options struct {
	UserAgent          string        // User agent string
	Timeout            time.Duration // Request timeout, zero for none
	InsecureSkipVerify bool          // Skip TLS certificate and hostname checks
}
