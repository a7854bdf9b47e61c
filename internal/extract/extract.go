package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"earnings-scraper/internal/logger"
	"earnings-scraper/internal/types"
)

// The calendar list has carried a few different ids over time; all of
// these have been observed in captured pages. Checked in order, first
// match wins.
var containerSelectors = []string{
	"ul#epscalendar",
	"#showcal ul",
	"ul.showlist",
}

// Extractor turns rendered calendar HTML into records. Structural
// absence of the calendar is treated as data ("no earnings that day"),
// never as an error.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns one record per well-formed row, in document order.
// Rows without a usable symbol are skipped; a missing container yields
// an empty slice.
func (e *Extractor) Extract(ctx context.Context, html string) []types.EarningsRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn(ctx, "Could not parse calendar HTML", "error", err)
		return nil
	}

	container := findContainer(doc)
	if container == nil {
		logger.Info(ctx, "Calendar container not found, treating as no data")
		return []types.EarningsRecord{}
	}

	records := []types.EarningsRecord{}
	container.ChildrenFiltered("li").Each(func(i int, row *goquery.Selection) {
		rec, ok := extractRow(row)
		if !ok {
			logger.Warn(ctx, "Skipping calendar row without symbol", "row", i)
			return
		}
		records = append(records, rec)
	})

	logger.Debug(ctx, "Extraction finished", "records", len(records))
	return records
}

func findContainer(doc *goquery.Document) *goquery.Selection {
	for _, sel := range containerSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}

func extractRow(row *goquery.Selection) (types.EarningsRecord, bool) {
	symbol := fieldText(row, ".ticker")
	if symbol == "" {
		// Some captures carry the symbol as a data attribute instead.
		symbol = strings.TrimSpace(row.AttrOr("data-symbol", ""))
	}
	if symbol == "" {
		return types.EarningsRecord{}, false
	}

	return types.EarningsRecord{
		Symbol:      strings.ToUpper(symbol),
		CompanyName: fieldText(row, ".company"),
		Time:        normalizeTime(fieldText(row, ".time")),
		Consensus:   fieldText(row, ".estimate"),
		Whisper:     fieldText(row, ".whisper"),
		Revenue:     fieldText(row, ".revenue"),
		Growth:      fieldText(row, ".revgrowth"),
	}, true
}

func fieldText(row *goquery.Selection, selector string) string {
	return strings.TrimSpace(row.Find(selector).First().Text())
}

// normalizeTime maps the page's abbreviations onto the long forms used
// in reports; anything else passes through as free text.
func normalizeTime(t string) string {
	switch strings.ToUpper(t) {
	case "":
		return types.TimeUnknown
	case "BMO":
		return types.TimeBeforeOpen
	case "AMC":
		return types.TimeAfterClose
	default:
		return t
	}
}
