package reporting

import (
	"math"

	"github.com/ovotrace/ovotrace/internal/domain/models"
	"github.com/ovotrace/ovotrace/pkg/timeparse"
)

// Dimension selects which record attribute the aggregation groups by.
type Dimension string

const (
	DimensionQuality Dimension = "quality"
	DimensionSize    Dimension = "size"
)

// Known returns the fixed category list for the dimension. Its order is the
// explicit tie-break priority for MostCommon.
func (d Dimension) Known() []string {
	if d == DimensionSize {
		return models.SizeCategories
	}
	return models.QualityCategories
}

func (d Dimension) key(rec models.InspectionRecord) string {
	if d == DimensionSize {
		return rec.Size
	}
	return rec.Quality
}

// Aggregate reduces a window of records into a DerivedMetric. It is a pure
// function: same input, byte-identical output, no shared state.
//
// Rules:
//   - percentages are round(count/total*100); all zero when total is zero
//   - MostCommon is the category with the strictly highest count; ties
//     resolve to the earlier entry of the dimension's fixed category list,
//     with unlisted categories after it in first-seen order
//   - rate per hour is total / max(window hours, 1), one decimal
//   - the trend field is left nil; callers with a baseline fill it in via
//     Trend
func Aggregate(records []models.InspectionRecord, dim Dimension, window timeparse.Window) models.DerivedMetric {
	metric := models.DerivedMetric{
		Counts:      map[string]int{},
		Percentages: map[string]int{},
	}

	var extras []string
	seen := map[string]bool{}
	for _, cat := range dim.Known() {
		seen[cat] = true
	}

	for _, rec := range records {
		if !window.Contains(rec.CreatedAt) {
			continue
		}
		key := dim.key(rec)
		if key == "" {
			key = "unknown"
		}
		if _, counted := metric.Counts[key]; !counted && !seen[key] {
			extras = append(extras, key)
			seen[key] = true
		}
		metric.Counts[key]++
		metric.Total++
		metric.HourBuckets[rec.CreatedAt.In(window.Start.Location()).Hour()]++
	}

	if metric.Total > 0 {
		for cat, count := range metric.Counts {
			metric.Percentages[cat] = int(math.Round(float64(count) / float64(metric.Total) * 100))
		}
	}

	best := -1
	for _, cat := range append(append([]string{}, dim.Known()...), extras...) {
		if count := metric.Counts[cat]; count > best && count > 0 {
			best = count
			metric.MostCommon = cat
		}
	}

	metric.RatePerHour = math.Round(float64(metric.Total)/window.Hours()*10) / 10

	return metric
}

// Trend computes the period-over-period change in percent, one decimal. The
// result is nil when the previous period has no records: a trend against an
// empty baseline is undefined, not 0% and not 100%.
func Trend(current, previous int) *float64 {
	if previous == 0 {
		return nil
	}
	t := math.Round(float64(current-previous)/float64(previous)*1000) / 10
	return &t
}
