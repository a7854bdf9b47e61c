package types

import "time"

// Report timing indicators as shown on the calendar page.
const (
	TimeBeforeOpen = "Before Market Open"
	TimeAfterClose = "After Market Close"
	TimeUnknown    = "Unknown"
)

// EarningsRecord is one company expected to report on a given date.
// Consensus and Whisper keep the page's currency formatting ("$1.25");
// either may be empty when the site has no estimate.
type EarningsRecord struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Time        string `json:"time"`
	Consensus   string `json:"consensus,omitempty"`
	Whisper     string `json:"whisper,omitempty"`

	// Raw revenue/growth text when the row carries it, used by the
	// filter stage. Not part of the calendar proper.
	Revenue string `json:"revenue,omitempty"`
	Growth  string `json:"growth,omitempty"`
}

// Report statuses.
const (
	StatusSuccess     = "success"
	StatusNoDataFound = "no_data_found"
)

// EarningsReport is one scrape snapshot. Date is always the caller's
// target date, never derived from the page. Companies preserves page
// order and may be empty.
type EarningsReport struct {
	Date      string           `json:"date"`
	ScrapedAt time.Time        `json:"scraped_at"`
	Status    string           `json:"status"`
	Message   string           `json:"message,omitempty"`
	Companies []EarningsRecord `json:"companies"`
}

// FilterCriteria documents what produced a filtered report.
type FilterCriteria struct {
	RevenueGrowthRules []string `json:"revenue_growth_rules"`
	TrackingList       []string `json:"tracking_list"`
	TrackingListCount  int      `json:"tracking_list_count"`
}

// FilteredRecord is an EarningsRecord that passed the filter stage,
// annotated with the parsed numbers and the rule that admitted it.
type FilteredRecord struct {
	Symbol          string  `json:"ticker"`
	CompanyName     string  `json:"name"`
	RevenueMillions float64 `json:"revenue_millions"`
	RevenueRaw      string  `json:"revenue_raw,omitempty"`
	GrowthRate      float64 `json:"growth_rate"`
	GrowthRaw       string  `json:"growth_raw,omitempty"`
	FilterReason    string  `json:"filter_reason"`
}

// FilteredReport mirrors EarningsReport for the filtered subset.
type FilteredReport struct {
	Date          string           `json:"date"`
	ScrapedAt     time.Time        `json:"scraped_at"`
	Criteria      FilterCriteria   `json:"filter_criteria"`
	Companies     []FilteredRecord `json:"companies"`
	TotalFiltered int              `json:"total_filtered"`
	TotalOriginal int              `json:"total_original"`
}
