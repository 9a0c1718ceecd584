package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovotrace/ovotrace/internal/domain/models"
)

func testExporter() *Service {
	svc := NewService(nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func sampleRecords() []models.InspectionRecord {
	base := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	return []models.InspectionRecord{
		{ID: "r1", BatchID: "batch-1", Quality: "good", WeightG: 58.2, MachineID: "m-01", ImageID: "img-1", CreatedAt: base},
		{ID: "r2", BatchID: "batch-1", Quality: "dirty", WeightG: 61.0, MachineID: "m-01", ImageID: "img-2", CreatedAt: base.Add(time.Minute)},
		{ID: "r3", BatchID: "batch-2", Quality: "cracked", WeightG: 49.9, MachineID: "m-02", ImageID: "img-3", CreatedAt: base.Add(2 * time.Minute)},
	}
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // header block rows have a single field
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRecordsCSVRoundTrip(t *testing.T) {
	records := sampleRecords()
	data, err := testExporter().recordsCSV(records)
	require.NoError(t, err)

	rows := parseCSV(t, data)
	// 3 institutional header lines + column header + one row per record.
	require.Len(t, rows, 4+len(records))

	assert.Equal(t, orgName, rows[0][0])
	assert.Equal(t, recordColumns, rows[3])

	for i, rec := range records {
		row := rows[4+i]
		assert.Equal(t, rec.CreatedAt.UTC().Format(time.RFC3339), row[0])
		assert.Equal(t, rec.BatchID, row[1])
		assert.Equal(t, rec.Quality, row[2])
		assert.Equal(t, rec.MachineID, row[4])
	}
}

func TestRecordsCSVEmptyStillHasHeaders(t *testing.T) {
	data, err := testExporter().recordsCSV(nil)
	require.NoError(t, err)

	rows := parseCSV(t, data)
	require.Len(t, rows, 4)
	assert.Equal(t, orgName, rows[0][0])
	assert.Equal(t, orgAddress, rows[1][0])
	assert.Equal(t, "Generated: 2024-05-10 12:00:00 UTC", rows[2][0])
	assert.Equal(t, recordColumns, rows[3])
}

func TestMetricCSV(t *testing.T) {
	trend := 12.5
	metric := models.DerivedMetric{
		Total:       3,
		Counts:      map[string]int{"good": 1, "dirty": 2},
		Percentages: map[string]int{"good": 33, "dirty": 67},
		MostCommon:  "dirty",
		RatePerHour: 0.1,
		Trend:       &trend,
	}

	data, err := testExporter().metricCSV(metric, models.QualityCategories)
	require.NoError(t, err)

	rows := parseCSV(t, data)
	assert.Equal(t, []string{"Metric", "Value"}, rows[3])
	assert.Equal(t, []string{"Total records", "3"}, rows[4])
	assert.Equal(t, []string{"good", "1 (33%)"}, rows[5])
	assert.Equal(t, []string{"dirty", "2 (67%)"}, rows[6])
	assert.Equal(t, []string{"Most common", "dirty"}, rows[7])
	assert.Equal(t, []string{"Trend vs previous period", "+12.5%"}, rows[9])
}

func TestMetricCSVNilTrendRendersDash(t *testing.T) {
	data, err := testExporter().metricCSV(models.DerivedMetric{Counts: map[string]int{}, Percentages: map[string]int{}}, models.QualityCategories)
	require.NoError(t, err)

	rows := parseCSV(t, data)
	last := rows[len(rows)-1]
	assert.Equal(t, "Trend vs previous period", last[0])
	assert.Equal(t, "–", last[1])
}
