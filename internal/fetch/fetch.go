package fetch

import (
	"context"
	"fmt"
)

// Fetcher retrieves the raw HTML of the calendar page for one date.
// This allows for multiple implementations (plain HTTP, driven browser,
// fixture-backed fakes in tests).
type Fetcher interface {
	// Fetch returns the page HTML for the given YYYYMMDD date.
	Fetch(ctx context.Context, date string) (string, error)
}

// FetchError is the fatal class for a run: network failure, non-2xx
// response, or browser startup failure.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// calendarURL builds the date-keyed page URL.
func calendarURL(baseURL, date string) string {
	return baseURL + "/" + date
}
