package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"earnings-scraper/internal/logger"
	"earnings-scraper/internal/types"
)

// WriteError is the fatal filesystem class: permission, disk full,
// unwritable directory.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s failed: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Filename returns the report path for a date inside outputDir.
func Filename(outputDir, date string) string {
	return filepath.Join(outputDir, fmt.Sprintf("earnings_calendar_%s.json", date))
}

// FilteredFilename returns the filtered-report path for a date.
func FilteredFilename(outputDir, date string) string {
	return filepath.Join(outputDir, fmt.Sprintf("earnings_filtered_%s.json", date))
}

// Write serializes one report snapshot as indented JSON. Each run is a
// fresh file; there is no append or merge with prior runs.
func Write(ctx context.Context, rep *types.EarningsReport, path string) error {
	if err := writeJSON(path, rep); err != nil {
		return err
	}
	logger.Info(ctx, "Report written", "path", path, "companies", len(rep.Companies))
	return nil
}

// WriteFiltered serializes the filtered subset alongside the main report.
func WriteFiltered(ctx context.Context, rep *types.FilteredReport, path string) error {
	if err := writeJSON(path, rep); err != nil {
		return err
	}
	logger.Info(ctx, "Filtered report written", "path", path, "companies", len(rep.Companies))
	return nil
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Read loads a previously written report, mostly for verification.
func Read(path string) (*types.EarningsReport, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rep types.EarningsReport
	if err := json.Unmarshal(b, &rep); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &rep, nil
}
