package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovotrace/ovotrace/internal/domain/models"
	"github.com/ovotrace/ovotrace/pkg/timeparse"
)

func dayWindow() timeparse.Window {
	start := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	return timeparse.Window{Start: start, End: start.AddDate(0, 0, 1)}
}

func recordAt(quality string, at time.Time) models.InspectionRecord {
	return models.InspectionRecord{Quality: quality, Size: models.SizeMedium, CreatedAt: at}
}

func TestAggregateCountsAndPercentages(t *testing.T) {
	w := dayWindow()
	records := []models.InspectionRecord{
		recordAt(models.QualityGood, w.Start.Add(time.Hour)),
		recordAt(models.QualityDirty, w.Start.Add(2*time.Hour)),
		recordAt(models.QualityDirty, w.Start.Add(3*time.Hour)),
	}

	metric := Aggregate(records, DimensionQuality, w)

	assert.Equal(t, 3, metric.Total)
	assert.Equal(t, map[string]int{"good": 1, "dirty": 2}, metric.Counts)
	assert.Equal(t, map[string]int{"good": 33, "dirty": 67}, metric.Percentages)
	assert.Equal(t, models.QualityDirty, metric.MostCommon)
}

func TestAggregateCountsSumToTotal(t *testing.T) {
	w := dayWindow()
	var records []models.InspectionRecord
	for i, q := range []string{"good", "good", "dirty", "cracked", "bad", "bad", "bad"} {
		records = append(records, recordAt(q, w.Start.Add(time.Duration(i)*time.Hour)))
	}

	metric := Aggregate(records, DimensionQuality, w)

	sum := 0
	for _, count := range metric.Counts {
		sum += count
	}
	assert.Equal(t, metric.Total, sum)
}

func TestAggregateEmptyInput(t *testing.T) {
	metric := Aggregate(nil, DimensionQuality, dayWindow())

	assert.Equal(t, 0, metric.Total)
	assert.Empty(t, metric.Counts)
	assert.Empty(t, metric.Percentages)
	assert.Equal(t, "", metric.MostCommon)
	assert.Equal(t, 0.0, metric.RatePerHour)
	assert.Nil(t, metric.Trend)
}

func TestAggregateExcludesRecordsOutsideWindow(t *testing.T) {
	w := dayWindow()
	records := []models.InspectionRecord{
		recordAt(models.QualityGood, w.Start.Add(-time.Second)), // before
		recordAt(models.QualityGood, w.Start),                   // inclusive start
		recordAt(models.QualityGood, w.End.Add(-time.Second)),   // last instant
		recordAt(models.QualityGood, w.End),                     // exclusive end
	}

	metric := Aggregate(records, DimensionQuality, w)
	assert.Equal(t, 2, metric.Total)
}

func TestAggregateTieBreakFollowsCategoryOrder(t *testing.T) {
	w := dayWindow()
	// bad appears first in the input but ties with good; the category
	// priority list decides.
	records := []models.InspectionRecord{
		recordAt(models.QualityBad, w.Start.Add(time.Hour)),
		recordAt(models.QualityGood, w.Start.Add(2*time.Hour)),
	}

	metric := Aggregate(records, DimensionQuality, w)
	assert.Equal(t, models.QualityGood, metric.MostCommon)
}

func TestAggregateUnknownCategoryStillCounted(t *testing.T) {
	w := dayWindow()
	records := []models.InspectionRecord{
		recordAt("speckled", w.Start.Add(time.Hour)),
		recordAt("speckled", w.Start.Add(2*time.Hour)),
		recordAt(models.QualityGood, w.Start.Add(3*time.Hour)),
	}

	metric := Aggregate(records, DimensionQuality, w)
	assert.Equal(t, 2, metric.Counts["speckled"])
	assert.Equal(t, "speckled", metric.MostCommon)
}

func TestAggregateRatePerHour(t *testing.T) {
	w := dayWindow() // 24h
	var records []models.InspectionRecord
	for i := 0; i < 36; i++ {
		records = append(records, recordAt(models.QualityGood, w.Start.Add(time.Duration(i)*time.Minute)))
	}

	metric := Aggregate(records, DimensionQuality, w)
	assert.Equal(t, 1.5, metric.RatePerHour)

	// Sub-hour windows divide by 1, not by a fraction.
	short := timeparse.Window{Start: w.Start, End: w.Start.Add(30 * time.Minute)}
	assert.Equal(t, 30.0, Aggregate(records[:30], DimensionQuality, short).RatePerHour)
}

func TestAggregateHourBuckets(t *testing.T) {
	w := dayWindow()
	records := []models.InspectionRecord{
		recordAt(models.QualityGood, w.Start.Add(9*time.Hour)),
		recordAt(models.QualityGood, w.Start.Add(9*time.Hour+30*time.Minute)),
		recordAt(models.QualityGood, w.Start.Add(17*time.Hour)),
	}

	metric := Aggregate(records, DimensionQuality, w)
	assert.Equal(t, 2, metric.HourBuckets[9])
	assert.Equal(t, 1, metric.HourBuckets[17])
}

func TestAggregateBySize(t *testing.T) {
	w := dayWindow()
	records := []models.InspectionRecord{
		{Quality: models.QualityGood, Size: models.SizeLarge, CreatedAt: w.Start.Add(time.Hour)},
		{Quality: models.QualityGood, Size: models.SizeLarge, CreatedAt: w.Start.Add(time.Hour)},
		{Quality: models.QualityGood, Size: models.SizeSmall, CreatedAt: w.Start.Add(time.Hour)},
	}

	metric := Aggregate(records, DimensionSize, w)
	assert.Equal(t, map[string]int{"large": 2, "small": 1}, metric.Counts)
	assert.Equal(t, models.SizeLarge, metric.MostCommon)
}

func TestAggregateIsIdempotent(t *testing.T) {
	w := dayWindow()
	var records []models.InspectionRecord
	for i, q := range []string{"good", "dirty", "dirty", "cracked"} {
		records = append(records, recordAt(q, w.Start.Add(time.Duration(i)*time.Hour)))
	}

	first := Aggregate(records, DimensionQuality, w)
	second := Aggregate(records, DimensionQuality, w)
	require.Equal(t, first, second)
}

func TestTrend(t *testing.T) {
	up := Trend(150, 100)
	require.NotNil(t, up)
	assert.Equal(t, 50.0, *up)

	down := Trend(80, 100)
	require.NotNil(t, down)
	assert.Equal(t, -20.0, *down)

	flat := Trend(100, 100)
	require.NotNil(t, flat)
	assert.Equal(t, 0.0, *flat)

	// No baseline: the trend is undefined, not 0% and not 100%.
	assert.Nil(t, Trend(100, 0))
	assert.Nil(t, Trend(0, 0))
}
