package fetchobs

import (
	"context"
	"time"

	"earnings-scraper/internal/fetch"
	"earnings-scraper/internal/logger"
	"earnings-scraper/internal/trace"
)

type observableFetcher struct {
	fetcher fetch.Fetcher
	name    string
}

var _ fetch.Fetcher = (*observableFetcher)(nil)

// Wrap adds a span and structured logs around a Fetcher. name labels the
// variant in logs ("static" or "dynamic").
func Wrap(fetcher fetch.Fetcher, name string) fetch.Fetcher {
	return &observableFetcher{
		fetcher: fetcher,
		name:    name,
	}
}

func (of *observableFetcher) Fetch(ctx context.Context, date string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "fetch.Fetch")
	defer span.End()

	logger.Info(ctx, "Starting calendar fetch",
		"fetcher", of.name,
		"date", date,
	)
	start := time.Now()

	html, err := of.fetcher.Fetch(ctx, date)
	if err != nil {
		logger.ErrorWithErr(ctx, "Calendar fetch failed", err,
			"fetcher", of.name,
			"date", date,
		)
		return "", err
	}

	logger.Info(ctx, "Calendar fetch completed",
		"fetcher", of.name,
		"date", date,
		"bytes", len(html),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return html, nil
}
