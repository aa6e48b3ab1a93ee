package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// Crawl limits. The crawler exists for importing documentation sites,
// not for scraping the open web.
const (
	// DefaultCrawlDepth follows links one level past the start page.
	DefaultCrawlDepth = 2

	// MaxCrawlDepth caps how deep a crawl may be asked to go.
	MaxCrawlDepth = 3

	// DefaultMaxPages bounds a crawl when the caller passes no limit.
	DefaultMaxPages = 10

	// MaxCrawlPages is the hard page cap per crawl.
	MaxCrawlPages = 50

	// crawlDelay spaces out requests to the same host.
	crawlDelay = 100 * time.Millisecond
)

// Crawler walks a site from a start page, staying on its host, and
// extracts every HTML page it visits.
type Crawler struct {
	reader *Reader
	logger *slog.Logger
}

// NewCrawler creates a Crawler that shares the Reader's extraction.
func NewCrawler(reader *Reader, logger *slog.Logger) *Crawler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Crawler{reader: reader, logger: logger}
}

// Crawl visits start and same-host pages linked from it, up to depth
// levels and maxPages pages, and returns their extracts. The start
// page counts as depth 1.
func (c *Crawler) Crawl(ctx context.Context, start string, depth, maxPages int) ([]Extract, error) {
	startURL, err := parsePageURL(start)
	if err != nil {
		return nil, err
	}

	if depth <= 0 {
		depth = DefaultCrawlDepth
	}
	depth = min(depth, MaxCrawlDepth)
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	maxPages = min(maxPages, MaxCrawlPages)

	collector := colly.NewCollector(
		colly.AllowedDomains(startURL.Hostname()),
		colly.MaxDepth(depth),
		colly.UserAgent(UserAgent),
		colly.MaxBodySize(MaxBodyBytes),
	)
	// The crawl fetches with the Reader's network policy, so a guarded
	// default never follows a link into a private network.
	if rt := c.reader.client.Transport; rt != nil {
		collector.WithTransport(rt)
	}
	if err := collector.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      crawlDelay,
	}); err != nil {
		return nil, fmt.Errorf("configuring crawler: %w", err)
	}

	var pages []Extract

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil || len(pages) >= maxPages {
			r.Abort()
		}
	})

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		// Errors here are routine: off-host links, revisits, depth.
		_ = e.Request.Visit(e.Attr("href"))
	})

	collector.OnResponse(func(r *colly.Response) {
		if len(pages) >= maxPages {
			return
		}
		if ct := r.Headers.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
			return
		}
		ex := c.reader.extract(r.Body, r.Request.URL)
		if ex.Title == "" && ex.Text == "" {
			return
		}
		pages = append(pages, *ex)
	})

	collector.OnError(func(r *colly.Response, err error) {
		c.logger.Debug("crawl request failed",
			"url", requestURL(r), "status", r.StatusCode, "error", err)
	})

	if err := collector.Visit(startURL.String()); err != nil && !ignorableCrawlErr(err) {
		return nil, fmt.Errorf("crawling %s: %w", startURL, err)
	}
	if err := ctx.Err(); err != nil {
		return pages, err
	}

	c.logger.Info("crawl finished",
		"start", startURL.String(), "depth", depth, "pages", len(pages))
	return pages, nil
}

func requestURL(r *colly.Response) string {
	if r == nil || r.Request == nil || r.Request.URL == nil {
		return ""
	}
	return r.Request.URL.String()
}

func ignorableCrawlErr(err error) bool {
	var visited *colly.AlreadyVisitedError
	return errors.As(err, &visited) ||
		errors.Is(err, colly.ErrForbiddenDomain) ||
		errors.Is(err, colly.ErrMaxDepth)
}
