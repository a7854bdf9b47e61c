package scraper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"earnings-scraper/internal/fetch"
	"earnings-scraper/internal/report"
	"earnings-scraper/internal/store"
	"earnings-scraper/internal/types"
)

type fakeFetcher struct {
	html string
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, date string) (string, error) {
	return f.html, f.err
}

const fixturePage = `<html><body><ul id="epscalendar">
<li><div class="ticker">AAPL</div><div class="company">Apple Inc.</div><div class="time">AMC</div><div class="estimate">$1.25</div><div class="whisper">$1.28</div></li>
<li><div class="ticker">JPM</div><div class="company">JPMorgan Chase</div><div class="time">BMO</div><div class="estimate">$4.10</div></li>
</ul></body></html>`

func testConfig(t *testing.T) *store.Config {
	t.Helper()
	cfg := store.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	return cfg
}

func TestRunWritesReport(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, &fakeFetcher{html: fixturePage})

	rep, err := s.Run(context.Background(), "20250714")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if rep.Date != "20250714" {
		t.Errorf("Expected caller-supplied date, got %q", rep.Date)
	}
	if rep.Status != types.StatusSuccess {
		t.Errorf("Expected success status, got %q", rep.Status)
	}
	if len(rep.Companies) != 2 {
		t.Fatalf("Expected 2 companies, got %d", len(rep.Companies))
	}
	if rep.Companies[0].Symbol != "AAPL" || rep.Companies[0].Time != types.TimeAfterClose {
		t.Errorf("Unexpected first record: %+v", rep.Companies[0])
	}

	// The on-disk snapshot must round-trip the same date and ordering.
	got, err := report.Read(report.Filename(cfg.OutputDir, "20250714"))
	if err != nil {
		t.Fatalf("Read-back failed: %v", err)
	}
	if got.Date != rep.Date || len(got.Companies) != 2 || got.Companies[1].Symbol != "JPM" {
		t.Errorf("Round-trip mismatch: %+v", got)
	}
}

func TestRunNoCalendarIsNotAnError(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, &fakeFetcher{html: "<html><body><p>Accept Cookies</p></body></html>"})

	rep, err := s.Run(context.Background(), "20250719")
	if err != nil {
		t.Fatalf("Run should succeed with no calendar: %v", err)
	}
	if rep.Status != types.StatusNoDataFound {
		t.Errorf("Expected %q, got %q", types.StatusNoDataFound, rep.Status)
	}
	if len(rep.Companies) != 0 {
		t.Errorf("Expected zero companies, got %d", len(rep.Companies))
	}

	// The empty snapshot is still a well-formed report on disk.
	got, err := report.Read(report.Filename(cfg.OutputDir, "20250719"))
	if err != nil {
		t.Fatalf("Read-back failed: %v", err)
	}
	if got.Message == "" {
		t.Error("Expected an explanatory message on the empty report")
	}
}

func TestRunPropagatesFetchError(t *testing.T) {
	cfg := testConfig(t)
	fetchErr := &fetch.FetchError{URL: "https://example.test", Err: errors.New("connection refused")}
	s := New(cfg, &fakeFetcher{err: fetchErr})

	_, err := s.Run(context.Background(), "20250714")
	var fe *fetch.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *fetch.FetchError, got %v", err)
	}

	// Nothing should have been written.
	if _, statErr := os.Stat(report.Filename(cfg.OutputDir, "20250714")); !os.IsNotExist(statErr) {
		t.Error("No report should exist after a fetch failure")
	}
}

func TestRunPropagatesWriteError(t *testing.T) {
	cfg := testConfig(t)
	// Block the output dir with a plain file.
	blocked := filepath.Join(cfg.OutputDir, "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.OutputDir = filepath.Join(blocked, "sub")

	s := New(cfg, &fakeFetcher{html: fixturePage})
	_, err := s.Run(context.Background(), "20250714")

	var we *report.WriteError
	if !errors.As(err, &we) {
		t.Fatalf("Expected *report.WriteError, got %v", err)
	}
}

func TestRunWritesFilteredReport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Filter.Enabled = true
	cfg.Filter.TrackingListPath = filepath.Join(cfg.OutputDir, "tracking_list.txt")
	if err := os.WriteFile(cfg.Filter.TrackingListPath, []byte("AAPL\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(cfg, &fakeFetcher{html: fixturePage})
	if _, err := s.Run(context.Background(), "20250714"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(report.FilteredFilename(cfg.OutputDir, "20250714")); err != nil {
		t.Errorf("Expected filtered report on disk: %v", err)
	}
}

func TestNewFromConfigVariants(t *testing.T) {
	cfg := testConfig(t)

	cfg.Fetcher = "STATIC"
	if s := NewFromConfig(cfg, false); s == nil || s.fetcher == nil {
		t.Error("Expected static scraper to be built")
	}

	cfg.Fetcher = "DYNAMIC"
	if s := NewFromConfig(cfg, true); s == nil || s.fetcher == nil {
		t.Error("Expected dynamic scraper to be built")
	}
}
