package filter

import (
	"bufio"
	"context"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"earnings-scraper/internal/logger"
	"earnings-scraper/internal/types"
)

// Revenue/growth tiers: a record qualifies when revenue (in millions)
// and growth both clear any single tier.
var tiers = []struct {
	minRevenueM float64
	minGrowth   float64
	rule        string
}{
	{10, 50, ">10M revenue and >50% growth"},
	{100, 30, ">100M revenue and >30% growth"},
	{500, 25, ">500M revenue and >25% growth"},
	{1000, 20, ">1000M revenue and >20% growth"},
	{5000, 15, ">5000M revenue and >15% growth"},
}

const (
	reasonTracked  = "tracking_list"
	reasonCriteria = "revenue_growth_criteria"
)

var (
	revenueRe = regexp.MustCompile(`(?i)\$?\s*([0-9,]+(?:\.[0-9]+)?)\s*(bil|billion|b|mil|million|m)\b`)
	growthRe  = regexp.MustCompile(`([+-]?[0-9]+(?:\.[0-9]+)?)\s*%`)
)

// Filter narrows scraped records to tracked symbols plus anything that
// clears the revenue/growth tiers.
type Filter struct {
	tracked map[string]bool
}

// New builds a filter from a tracking-list file: one symbol per line,
// '#' comments, case-insensitive. A missing file is not an error, it
// just means an empty tracking list.
func New(ctx context.Context, trackingListPath string) *Filter {
	tracked := map[string]bool{}

	f, err := os.Open(trackingListPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn(ctx, "Could not read tracking list", "path", trackingListPath, "error", err)
		}
		return &Filter{tracked: tracked}
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tracked[line] = true
	}
	if err := sc.Err(); err != nil {
		logger.Warn(ctx, "Error scanning tracking list", "path", trackingListPath, "error", err)
	}

	logger.Debug(ctx, "Loaded tracking list", "path", trackingListPath, "symbols", len(tracked))
	return &Filter{tracked: tracked}
}

// TrackedSymbols returns the tracking list, sorted.
func (f *Filter) TrackedSymbols() []string {
	syms := make([]string, 0, len(f.tracked))
	for s := range f.tracked {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}

// Criteria describes this filter for embedding in the filtered report.
func (f *Filter) Criteria() types.FilterCriteria {
	rules := make([]string, len(tiers))
	for i, t := range tiers {
		rules[i] = t.rule
	}
	return types.FilterCriteria{
		RevenueGrowthRules: rules,
		TrackingList:       f.TrackedSymbols(),
		TrackingListCount:  len(f.tracked),
	}
}

// Apply returns the records that are tracked or clear a tier, in input
// order.
func (f *Filter) Apply(ctx context.Context, records []types.EarningsRecord) []types.FilteredRecord {
	var out []types.FilteredRecord
	for _, rec := range records {
		revenueM, revenueRaw := ParseRevenueMillions(rec.Revenue)
		growth, growthRaw := ParseGrowthRate(rec.Growth)

		reason := ""
		switch {
		case f.tracked[rec.Symbol]:
			reason = reasonTracked
		case meetsCriteria(revenueM, growth):
			reason = reasonCriteria
		default:
			continue
		}

		logger.Debug(ctx, "Record passed filter",
			"symbol", rec.Symbol,
			"reason", reason,
			"revenue_millions", revenueM,
			"growth_rate", growth,
		)
		out = append(out, types.FilteredRecord{
			Symbol:          rec.Symbol,
			CompanyName:     rec.CompanyName,
			RevenueMillions: revenueM,
			RevenueRaw:      revenueRaw,
			GrowthRate:      growth,
			GrowthRaw:       growthRaw,
			FilterReason:    reason,
		})
	}
	return out
}

func meetsCriteria(revenueM, growth float64) bool {
	for _, t := range tiers {
		if revenueM > t.minRevenueM && growth > t.minGrowth {
			return true
		}
	}
	return false
}

// ParseRevenueMillions parses text like "$1.2 Bil" or "340 Mil" into
// millions of dollars. Unparsable text yields 0, which fails every tier.
func ParseRevenueMillions(text string) (float64, string) {
	m := revenueRe.FindStringSubmatch(text)
	if m == nil {
		return 0, ""
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, ""
	}
	unit := strings.ToLower(m[2])
	if strings.HasPrefix(unit, "b") {
		amount *= 1000
	}
	return amount, m[0]
}

// ParseGrowthRate parses text like "+23.5%" into a percentage.
func ParseGrowthRate(text string) (float64, string) {
	m := growthRe.FindStringSubmatch(text)
	if m == nil {
		return 0, ""
	}
	rate, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, ""
	}
	return rate, m[0]
}
