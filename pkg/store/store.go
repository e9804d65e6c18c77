// Package store holds the visits of a single crawl and computes the
// aggregate statistics over them.
package store

import (
	"math"

	"github.com/amosWeiskopf/pagecrawl/internal/models"
)

// VisitStore maps normalized URLs to their visit, in insertion order. The
// first visit recorded for a URL is kept for the lifetime of the store.
// A VisitStore is not safe for concurrent use.
type VisitStore struct {
	order  []string
	visits map[string]models.PageVisit
}

// New creates an empty store.
func New() *VisitStore {
	return &VisitStore{visits: make(map[string]models.PageVisit)}
}

// Add records visit under visit.URL unless that URL is already present.
// It reports whether the visit was inserted.
func (s *VisitStore) Add(visit models.PageVisit) bool {
	if _, exists := s.visits[visit.URL]; exists {
		return false
	}
	s.visits[visit.URL] = visit
	s.order = append(s.order, visit.URL)
	return true
}

// Has reports whether url has been visited.
func (s *VisitStore) Has(url string) bool {
	_, exists := s.visits[url]
	return exists
}

// Get returns the visit recorded for url.
func (s *VisitStore) Get(url string) (models.PageVisit, bool) {
	v, ok := s.visits[url]
	return v, ok
}

// Count returns the number of visits.
func (s *VisitStore) Count() int {
	return len(s.order)
}

// UniqueImageCount returns the number of distinct image references across all visits.
func (s *VisitStore) UniqueImageCount() int {
	return s.uniqueCount(func(v models.PageVisit) []string { return v.Images })
}

// UniqueInternalLinkCount returns the number of distinct internal hrefs across all visits.
func (s *VisitStore) UniqueInternalLinkCount() int {
	return s.uniqueCount(func(v models.PageVisit) []string { return v.InternalLinks })
}

// UniqueExternalLinkCount returns the number of distinct external hrefs across all visits.
func (s *VisitStore) UniqueExternalLinkCount() int {
	return s.uniqueCount(func(v models.PageVisit) []string { return v.ExternalLinks })
}

func (s *VisitStore) uniqueCount(field func(models.PageVisit) []string) int {
	seen := make(map[string]struct{})
	for _, v := range s.visits {
		for _, item := range field(v) {
			seen[item] = struct{}{}
		}
	}
	return len(seen)
}

// AverageLoadTime returns the mean load time in seconds, or 0 when empty.
func (s *VisitStore) AverageLoadTime() float64 {
	if len(s.order) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.visits {
		sum += v.LoadTime
	}
	return sum / float64(len(s.order))
}

// AverageWordCount returns the mean number of words per page, rounded.
func (s *VisitStore) AverageWordCount() int {
	return s.roundedMean(func(v models.PageVisit) int { return len(v.Words) })
}

// AverageTitleLength returns the mean title length in bytes, rounded.
func (s *VisitStore) AverageTitleLength() int {
	return s.roundedMean(func(v models.PageVisit) int { return len(v.Title) })
}

func (s *VisitStore) roundedMean(field func(models.PageVisit) int) int {
	if len(s.order) == 0 {
		return 0
	}
	sum := 0
	for _, v := range s.visits {
		sum += field(v)
	}
	return int(math.Round(float64(sum) / float64(len(s.order))))
}

// VisitStatusCodes returns each visited URL with its status code, in visit order.
func (s *VisitStore) VisitStatusCodes() []models.VisitStatus {
	statuses := make([]models.VisitStatus, 0, len(s.order))
	for _, url := range s.order {
		statuses = append(statuses, models.VisitStatus{
			URL:        url,
			StatusCode: s.visits[url].StatusCode,
		})
	}
	return statuses
}

// AllVisits returns every visit in insertion order.
func (s *VisitStore) AllVisits() []models.PageVisit {
	visits := make([]models.PageVisit, 0, len(s.order))
	for _, url := range s.order {
		visits = append(visits, s.visits[url])
	}
	return visits
}

// Stats computes all aggregate statistics at once.
func (s *VisitStore) Stats() models.AggregateStats {
	return models.AggregateStats{
		Pages:               s.Count(),
		UniqueImages:        s.UniqueImageCount(),
		UniqueInternalLinks: s.UniqueInternalLinkCount(),
		UniqueExternalLinks: s.UniqueExternalLinkCount(),
		AverageLoadTime:     s.AverageLoadTime(),
		AverageWordCount:    s.AverageWordCount(),
		AverageTitleLength:  s.AverageTitleLength(),
		StatusCodes:         s.VisitStatusCodes(),
	}
}
