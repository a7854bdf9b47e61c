package scraper

import (
	"context"
	"fmt"
	"time"

	"earnings-scraper/internal/extract"
	"earnings-scraper/internal/fetch"
	"earnings-scraper/internal/fetch/fetchobs"
	"earnings-scraper/internal/filter"
	"earnings-scraper/internal/logger"
	"earnings-scraper/internal/report"
	"earnings-scraper/internal/store"
	"earnings-scraper/internal/types"
)

// Scraper runs one fetch-extract-write pass. Everything is sequential;
// recurrence comes from launchd, not from here.
type Scraper struct {
	cfg       *store.Config
	fetcher   fetch.Fetcher
	extractor *extract.Extractor
}

func New(cfg *store.Config, fetcher fetch.Fetcher) *Scraper {
	return &Scraper{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extract.New(),
	}
}

// NewFromConfig builds the scraper with the configured fetcher variant.
func NewFromConfig(cfg *store.Config, debug bool) *Scraper {
	var fetcher fetch.Fetcher
	if cfg.Fetcher == "STATIC" {
		fetcher = fetchobs.Wrap(
			fetch.NewStaticFetcher(cfg.BaseURL, cfg.HTTP.UserAgent, cfg.HTTPTimeout()),
			"static",
		)
	} else {
		fetcher = fetchobs.Wrap(
			fetch.NewDynamicFetcher(cfg.BaseURL, fetch.DynamicOptions{
				ExecPath:     cfg.Browser.ExecPath,
				Headless:     cfg.Headless(),
				UserAgent:    cfg.Browser.UserAgent,
				WindowWidth:  cfg.Browser.WindowWidth,
				WindowHeight: cfg.Browser.WindowHeight,
				WaitTimeout:  cfg.WaitTimeout(),
				PollInterval: cfg.PollInterval(),
				VisitTimeout: cfg.NavigateTimeout(),
				Debug:        debug,
				DebugDir:     cfg.DebugDir,
			}),
			"dynamic",
		)
	}
	return New(cfg, fetcher)
}

// Run scrapes one date and writes the report (and the filtered report
// when enabled). Zero records is a normal outcome; only fetch and write
// failures are errors.
func (s *Scraper) Run(ctx context.Context, date string) (*types.EarningsReport, error) {
	html, err := s.fetcher.Fetch(ctx, date)
	if err != nil {
		return nil, err
	}

	records := s.extractor.Extract(ctx, html)

	rep := &types.EarningsReport{
		Date:      date,
		ScrapedAt: time.Now(),
		Status:    types.StatusSuccess,
		Companies: records,
	}
	if len(records) == 0 {
		rep.Status = types.StatusNoDataFound
		rep.Message = fmt.Sprintf("No earnings data found for %s. This might be a date with no scheduled earnings.", date)
	}

	path := report.Filename(s.cfg.OutputDir, date)
	if err := report.Write(ctx, rep, path); err != nil {
		return nil, err
	}

	if s.cfg.Filter.Enabled && len(records) > 0 {
		s.writeFiltered(ctx, rep)
	}

	logger.Info(ctx, "Scrape run finished",
		"date", date,
		"status", rep.Status,
		"companies", len(rep.Companies),
		"path", path,
	)
	return rep, nil
}

// writeFiltered applies the tracking-list/criteria filter. Filter
// problems never fail the run; the main report is already on disk.
func (s *Scraper) writeFiltered(ctx context.Context, rep *types.EarningsReport) {
	f := filter.New(ctx, s.cfg.Filter.TrackingListPath)
	passed := f.Apply(ctx, rep.Companies)
	if len(passed) == 0 {
		logger.Debug(ctx, "No records passed the filter, skipping filtered report")
		return
	}

	filtered := &types.FilteredReport{
		Date:          rep.Date,
		ScrapedAt:     rep.ScrapedAt,
		Criteria:      f.Criteria(),
		Companies:     passed,
		TotalFiltered: len(passed),
		TotalOriginal: len(rep.Companies),
	}
	path := report.FilteredFilename(s.cfg.OutputDir, rep.Date)
	if err := report.WriteFiltered(ctx, filtered, path); err != nil {
		logger.ErrorWithErr(ctx, "Could not write filtered report", err, "path", path)
	}
}
