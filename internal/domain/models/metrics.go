package models

// DerivedMetric is the output of the aggregation stage. It is computed fresh
// for every request and never persisted; the nightly snapshot stores its own
// document shape (DailySummary).
type DerivedMetric struct {
	Total       int            `json:"total"`
	Counts      map[string]int `json:"counts"`
	Percentages map[string]int `json:"percentages"`
	MostCommon  string         `json:"mostCommon"`
	RatePerHour float64        `json:"ratePerHour"`
	// Trend is the period-over-period change in percent. Nil when the
	// previous period has no records, since a trend against an empty
	// baseline is undefined rather than 0% or 100%.
	Trend       *float64 `json:"trend"`
	HourBuckets [24]int  `json:"hourBuckets"`
}
