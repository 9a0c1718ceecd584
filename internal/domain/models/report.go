package models

import "time"

// DailySummary is the nightly per-account snapshot written by the scheduler
// into the daily_summaries collection.
type DailySummary struct {
	AccountID   string         `bson:"account_id" json:"accountId"`
	Date        time.Time      `bson:"date" json:"date"`
	Total       int            `bson:"total" json:"total"`
	ByQuality   map[string]int `bson:"by_quality" json:"byQuality"`
	BySize      map[string]int `bson:"by_size" json:"bySize"`
	MostCommon  string         `bson:"most_common" json:"mostCommon"`
	RatePerHour float64        `bson:"rate_per_hour" json:"ratePerHour"`
	Trend       *float64       `bson:"trend,omitempty" json:"trend"`
	SkippedBad  int            `bson:"skipped_bad_timestamps" json:"skippedBadTimestamps"`
	CreatedAt   time.Time      `bson:"created_at" json:"createdAt"`
}
