package crawler

import (
	"context"
	"math"
	"time"

	"github.com/amosWeiskopf/pagecrawl/internal/logger"
	"github.com/amosWeiskopf/pagecrawl/internal/models"
	"github.com/amosWeiskopf/pagecrawl/pkg/extractor"
	"github.com/amosWeiskopf/pagecrawl/pkg/fetcher"
	"github.com/amosWeiskopf/pagecrawl/pkg/store"
	"github.com/amosWeiskopf/pagecrawl/pkg/utils"
)

// Crawler walks a site depth-first, one request at a time.
type Crawler struct {
	fetcher   fetcher.Fetcher
	extractor PageExtractor
	logger    *logger.Logger
}

// New creates a Crawler from its collaborators. A nil logger discards output.
func New(f fetcher.Fetcher, e PageExtractor, log *logger.Logger) *Crawler {
	if log == nil {
		log = logger.Nop()
	}
	return &Crawler{
		fetcher:   f,
		extractor: e,
		logger:    log.WithComponent("crawler"),
	}
}

// NewWithOptions creates a Crawler backed by an HTTP fetcher and the HTML extractor.
func NewWithOptions(opts Options, log *logger.Logger) *Crawler {
	f := fetcher.NewHTTPFetcher(fetcher.Options{
		UserAgent:          opts.UserAgent,
		Timeout:            opts.Timeout,
		InsecureSkipVerify: opts.InsecureSkipVerify,
	})
	return New(f, extractor.New(), log)
}

// Crawl visits startURL and follows up to maxBreadth new internal links per
// page, maxDepth levels deep counting the start page. A maxDepth of zero or
// less performs no requests. Page failures are recorded, never returned; the
// only error is ctx's, alongside whatever was collected before cancellation.
func (c *Crawler) Crawl(ctx context.Context, startURL string, maxBreadth, maxDepth int) (*models.CrawlResult, error) {
	started := time.Now()
	visits := store.New()

	if maxDepth > 0 {
		c.crawl(ctx, visits, startURL, maxBreadth, maxDepth)
	}

	result := &models.CrawlResult{
		StartURL:   utils.NormalizeURL(startURL),
		MaxBreadth: maxBreadth,
		MaxDepth:   maxDepth,
		StartedAt:  started,
		Duration:   time.Since(started),
		Visits:     visits.AllVisits(),
		Stats:      visits.Stats(),
	}

	c.logger.Event(logger.InfoLevel).
		Str("start_url", result.StartURL).
		Int("pages", result.Stats.Pages).
		Dur("duration", result.Duration).
		Msg("Crawl finished")

	return result, ctx.Err()
}

func (c *Crawler) crawl(ctx context.Context, visits *store.VisitStore, pageURL string, maxBreadth, depth int) {
	pageURL = utils.NormalizeURL(pageURL)

	visit := c.visit(ctx, pageURL, depth)
	visits.Add(visit)

	depth--
	if depth <= 0 {
		return
	}

	origin, err := utils.Origin(pageURL)
	if err != nil {
		c.logger.WithURL(pageURL).WithError(err).Warn("Cannot follow links")
		return
	}

	followed := 0
	for _, href := range visit.InternalLinks {
		if followed >= maxBreadth {
			break
		}
		if ctx.Err() != nil {
			return
		}

		link := utils.NormalizeURL(utils.QualifyLink(origin, href))
		if visits.Has(link) {
			continue
		}
		c.crawl(ctx, visits, link, maxBreadth, depth)
		followed++
	}
}

// visit fetches and analyzes one page. Failures produce a visit with empty
// fields, a zero status code and the reason in Error.
func (c *Crawler) visit(ctx context.Context, pageURL string, depth int) models.PageVisit {
	log := c.logger.WithURL(pageURL).WithDepth(depth)

	res, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		log.WithError(err).Warn("Fetch failed")
		return degraded(pageURL, err)
	}

	origin, _ := utils.Origin(pageURL)
	page, err := c.extractor.Extract(res.Body, origin)
	if err != nil {
		log.WithError(err).Warn("Parse failed")
		return degraded(pageURL, err)
	}

	c.logger.VisitEvent(pageURL, res.StatusCode, res.Elapsed, depth)

	return models.PageVisit{
		URL:           pageURL,
		Title:         page.Title,
		Words:         page.Words,
		Images:        page.Images,
		InternalLinks: page.InternalLinks,
		ExternalLinks: page.ExternalLinks,
		LoadTime:      res.Elapsed.Seconds(),
		StatusCode:    res.StatusCode,
	}
}

func degraded(pageURL string, err error) models.PageVisit {
	empty := extractor.Empty()
	return models.PageVisit{
		URL:           pageURL,
		Words:         empty.Words,
		Images:        empty.Images,
		InternalLinks: empty.InternalLinks,
		ExternalLinks: empty.ExternalLinks,
		Error:         err.Error(),
	}
}

// ExpectedVisits is the most pages a crawl can visit: the sum of
// maxBreadth^i for i in [0, maxDepth). It saturates at math.MaxInt.
func ExpectedVisits(maxBreadth, maxDepth int) int {
	if maxDepth <= 0 || maxBreadth < 0 {
		return 0
	}

	total, term := 0, 1
	for i := 0; i < maxDepth; i++ {
		if total > math.MaxInt-term {
			return math.MaxInt
		}
		total += term
		if i+1 < maxDepth && maxBreadth > 1 && term > math.MaxInt/maxBreadth {
			return math.MaxInt
		}
		term *= maxBreadth
	}
	return total
}
