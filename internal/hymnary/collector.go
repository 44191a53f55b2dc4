package hymnary

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/CadenFinley/web-scraper/internal/counter"
	"github.com/CadenFinley/web-scraper/internal/fetch"
	"github.com/CadenFinley/web-scraper/internal/metrics"
	"github.com/CadenFinley/web-scraper/internal/models"
	"github.com/PuerkitoBio/goquery"
)

// DefaultBaseURL is the public hymnary.org site.
const DefaultBaseURL = "https://hymnary.org/"

const hymnalPath = "hymnal"

// Collector harvests every hymn of one hymnal.
type Collector struct {
	fetcher   fetch.Fetcher
	extractor *Extractor
	baseURL   string
	recorder  *metrics.Recorder
}

// NewCollector creates a collector. The fetcher should be the run's shared paced fetcher
// and ids the run's shared hymn id counter.
func NewCollector(fetcher fetch.Fetcher, ids *counter.Counter, baseURL string, recorder *metrics.Recorder) *Collector {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Collector{
		fetcher:   fetcher,
		extractor: NewExtractor(ids),
		baseURL:   baseURL,
		recorder:  recorder,
	}
}

// HymnalURL returns the root page URL for a hymnal code.
func (c *Collector) HymnalURL(code string) (string, error) {
	u, err := url.JoinPath(c.baseURL, hymnalPath, code)
	if err != nil {
		return "", fmt.Errorf("failed to build url for hymnal %s: %w", code, err)
	}
	return u, nil
}

// Collect fetches the hymnal's root page, then every further listing page, and returns
// the hymns in page-then-row order with HymnTotal set on each. A failed root page fails
// the hymnal; a failed later page is logged and skipped.
func (c *Collector) Collect(ctx context.Context, code string) ([]models.Hymn, error) {
	rootURL, err := c.HymnalURL(code)
	if err != nil {
		return nil, err
	}

	doc, err := c.fetchDocument(ctx, rootURL)
	if err != nil {
		slog.Error("Failed to fetch hymnal", "hymnal", code, "url", rootURL, "error", err)
		return nil, fmt.Errorf("failed to fetch hymnal %s: %w", code, err)
	}

	info := ExtractHymnalInfo(doc, code)
	slog.Info("Processing hymnal", "hymnal", code, "name", info.Name)

	pages := ExtractPages(doc, rootURL)
	hymns := c.extractPage(doc, "0", info)

	for _, page := range pages {
		if page.Label == "0" || page.Href == "" {
			continue
		}

		pageDoc, err := c.fetchDocument(ctx, page.Href)
		if err != nil {
			slog.Warn("Failed to fetch page", "hymnal", code, "page", page.Label, "url", page.Href, "error", err)
			c.recorder.ObservePage(metrics.PageFailed)
			continue
		}

		hymns = append(hymns, c.extractPage(pageDoc, page.Label, info)...)
	}

	total := len(hymns)
	for i := range hymns {
		hymns[i].HymnTotal = total
	}

	slog.Info("Total hymns collected", "hymnal", code, "total", total, "pages", len(pages))
	return hymns, nil
}

func (c *Collector) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if err := fetch.Check(resp); err != nil {
		return nil, err
	}
	return ParseDocument(resp.Body)
}

func (c *Collector) extractPage(doc *goquery.Document, label string, info models.HymnalInfo) []models.Hymn {
	hymns := c.extractor.ExtractHymns(doc, label, info)
	if len(hymns) == 0 {
		c.recorder.ObservePage(metrics.PageEmpty)
	} else {
		c.recorder.ObservePage(metrics.PageOK)
	}
	return hymns
}
