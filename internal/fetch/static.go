package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"

	"earnings-scraper/internal/logger"
)

// StaticFetcher issues a single GET for the calendar page. It cannot see
// content the site injects after page load; it serves as a cheap first
// attempt and connectivity check before the browser-driven path.
type StaticFetcher struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
}

var _ Fetcher = (*StaticFetcher)(nil)

func NewStaticFetcher(baseURL, userAgent string, timeout time.Duration) *StaticFetcher {
	return &StaticFetcher{
		baseURL:   baseURL,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Fetch returns the page HTML as served, without JavaScript execution.
func (f *StaticFetcher) Fetch(ctx context.Context, date string) (string, error) {
	pageURL := calendarURL(f.baseURL, date)

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(f.timeout)

	// Set user agent to avoid being blocked
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", f.userAgent)
	})

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
	})

	logger.Debug(ctx, "Fetching calendar page", "url", pageURL, "fetcher", "static")

	if err := c.Visit(pageURL); err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	c.Wait()

	if fetchErr != nil {
		return "", &FetchError{URL: pageURL, Err: fetchErr}
	}

	logger.Debug(ctx, "Fetched calendar page", "url", pageURL, "bytes", len(body))
	return string(body), nil
}
