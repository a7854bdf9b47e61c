package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"earnings-scraper/internal/logger"
)

// The site fills the calendar client-side; these selectors come from its
// markup. Cookie consent markup changes from time to time, so every click
// is best effort.
const (
	cookieButtonSelector = `#acceptCookies, button[data-cookie-string], button[onclick*='acceptAndReload']`
	calendarRowsExpr     = `document.querySelectorAll('ul#epscalendar li, #showcal ul li, ul.showlist li').length`
)

// DynamicOptions configures the browser-driven fetcher.
type DynamicOptions struct {
	ExecPath     string // empty: chromedp locates Chrome itself
	Headless     bool
	UserAgent    string
	WindowWidth  int
	WindowHeight int

	// WaitTimeout bounds the wait for the JavaScript-populated calendar;
	// PollInterval is how often the DOM is re-checked during that wait.
	// VisitTimeout bounds the whole page visit.
	WaitTimeout  time.Duration
	PollInterval time.Duration
	VisitTimeout time.Duration

	// Debug persists the rendered page under DebugDir for offline
	// inspection.
	Debug    bool
	DebugDir string
}

// DynamicFetcher drives a Chrome instance so the page's asynchronous
// calendar population actually runs before the HTML is read.
type DynamicFetcher struct {
	baseURL string
	opts    DynamicOptions
}

var _ Fetcher = (*DynamicFetcher)(nil)

func NewDynamicFetcher(baseURL string, opts DynamicOptions) *DynamicFetcher {
	return &DynamicFetcher{baseURL: baseURL, opts: opts}
}

// Fetch launches the browser, navigates to the date-keyed page, accepts
// the cookie prompt when present, waits for the calendar to populate and
// returns the rendered HTML. The browser is released on every exit path
// via the deferred context cancels.
func (f *DynamicFetcher) Fetch(ctx context.Context, date string) (string, error) {
	pageURL := calendarURL(f.baseURL, date)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(f.opts.WindowWidth, f.opts.WindowHeight),
		chromedp.UserAgent(f.opts.UserAgent),
	)
	if f.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(f.opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if err := chromedp.Run(browserCtx); err != nil {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("starting Chrome: %w", err)}
	}

	visitCtx, cancelVisit := context.WithTimeout(browserCtx, f.opts.VisitTimeout)
	defer cancelVisit()

	logger.Debug(ctx, "Fetching calendar page", "url", pageURL, "fetcher", "dynamic", "headless", f.opts.Headless)

	var html string
	err := chromedp.Run(visitCtx,
		chromedp.Navigate(pageURL),
		chromedp.ActionFunc(f.acceptCookies),
		chromedp.ActionFunc(f.waitForCalendar),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}

	if f.opts.Debug {
		f.saveSnapshot(ctx, date, html)
	}

	logger.Debug(ctx, "Fetched calendar page", "url", pageURL, "bytes", len(html))
	return html, nil
}

// acceptCookies dismisses the cookie-consent overlay when present. The
// AtLeast(0) click means an absent overlay is not a failure.
func (f *DynamicFetcher) acceptCookies(ctx context.Context) error {
	err := chromedp.Click(cookieButtonSelector, chromedp.ByQuery, chromedp.AtLeast(0)).Do(ctx)
	if err != nil {
		logger.Debug(ctx, "Cookie consent click failed, continuing", "error", err)
		return nil
	}
	// The site reloads after acceptance; give it a beat before waiting
	// on the calendar itself.
	_ = chromedp.Sleep(time.Second).Do(ctx)
	return nil
}

// waitForCalendar polls the DOM until the calendar list has rows or the
// wait deadline passes. Timing out is not an error: the page is read
// as-is and structural absence is handled downstream as "no data".
func (f *DynamicFetcher) waitForCalendar(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, f.opts.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(f.opts.PollInterval)
	defer ticker.Stop()

	for {
		var rows int
		if err := chromedp.Evaluate(calendarRowsExpr, &rows).Do(waitCtx); err == nil && rows > 0 {
			logger.Debug(ctx, "Calendar populated", "rows", rows)
			return nil
		}

		select {
		case <-waitCtx.Done():
			logger.Warn(ctx, "Timed out waiting for calendar rows, reading page as-is",
				"timeout", f.opts.WaitTimeout.String())
			return nil
		case <-ticker.C:
		}
	}
}

// saveSnapshot persists the rendered page for offline inspection.
func (f *DynamicFetcher) saveSnapshot(ctx context.Context, date, html string) {
	if err := os.MkdirAll(f.opts.DebugDir, 0o755); err != nil {
		logger.Warn(ctx, "Could not create debug dir", "dir", f.opts.DebugDir, "error", err)
		return
	}
	path := filepath.Join(f.opts.DebugDir, fmt.Sprintf("page_%s_%s.html", date, time.Now().Format("150405")))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		logger.Warn(ctx, "Could not write page snapshot", "path", path, "error", err)
		return
	}
	logger.Info(ctx, "Saved page snapshot", "path", path)
}
