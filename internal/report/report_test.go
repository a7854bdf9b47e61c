package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"earnings-scraper/internal/types"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rep := &types.EarningsReport{
		Date:      "20250714",
		ScrapedAt: time.Date(2025, 7, 14, 6, 0, 0, 0, time.UTC),
		Status:    types.StatusSuccess,
		Companies: []types.EarningsRecord{
			{Symbol: "AAPL", CompanyName: "Apple Inc.", Time: types.TimeAfterClose, Consensus: "$1.25", Whisper: "$1.28"},
			{Symbol: "MSFT", CompanyName: "Microsoft Corp", Time: types.TimeBeforeOpen},
		},
	}

	path := Filename(dir, rep.Date)
	if err := Write(context.Background(), rep, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got.Date != "20250714" {
		t.Errorf("Expected date 20250714, got %q", got.Date)
	}
	if len(got.Companies) != 2 {
		t.Fatalf("Expected 2 companies, got %d", len(got.Companies))
	}
	for i := range rep.Companies {
		if got.Companies[i] != rep.Companies[i] {
			t.Errorf("Company %d mismatch: got %+v, want %+v", i, got.Companies[i], rep.Companies[i])
		}
	}
}

func TestWriteEmptyCompanies(t *testing.T) {
	dir := t.TempDir()
	rep := &types.EarningsReport{
		Date:      "20250719",
		ScrapedAt: time.Now(),
		Status:    types.StatusNoDataFound,
		Message:   "No earnings data found for 20250719.",
		Companies: []types.EarningsRecord{},
	}

	path := Filename(dir, rep.Date)
	if err := Write(context.Background(), rep, path); err != nil {
		t.Fatalf("Write failed for empty report: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Status != types.StatusNoDataFound {
		t.Errorf("Expected status %q, got %q", types.StatusNoDataFound, got.Status)
	}
	if got.Companies == nil || len(got.Companies) != 0 {
		t.Errorf("Expected empty companies array, got %v", got.Companies)
	}
}

func TestWriteCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	rep := &types.EarningsReport{Date: "20250714", Status: types.StatusSuccess}

	if err := Write(context.Background(), rep, Filename(dir, rep.Date)); err != nil {
		t.Fatalf("Write should create missing directories: %v", err)
	}
}

func TestWriteFilesystemFailure(t *testing.T) {
	rep := &types.EarningsReport{Date: "20250714", Status: types.StatusSuccess}

	// A path under an existing file cannot be created.
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	if err := Write(context.Background(), rep, blocker); err != nil {
		t.Fatalf("Setup write failed: %v", err)
	}

	err := Write(context.Background(), rep, filepath.Join(blocker, "sub", "report.json"))
	if err == nil {
		t.Fatal("Expected a WriteError, got nil")
	}
	if _, ok := err.(*WriteError); !ok {
		t.Errorf("Expected *WriteError, got %T", err)
	}
}

func TestFilenames(t *testing.T) {
	if got := Filename("reports", "20250714"); got != filepath.Join("reports", "earnings_calendar_20250714.json") {
		t.Errorf("Unexpected report filename: %s", got)
	}
	if got := FilteredFilename("reports", "20250714"); got != filepath.Join("reports", "earnings_filtered_20250714.json") {
		t.Errorf("Unexpected filtered filename: %s", got)
	}
}
