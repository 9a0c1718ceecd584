package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/ovotrace/ovotrace/internal/domain/models"
)

// recordsCSV writes a record-level log as UTF-8 comma-delimited text. The
// encoding/csv writer quotes fields containing delimiters or newlines, which
// is exactly the contract the dashboard's re-import expects. An empty record
// set still yields a valid file with the institutional and column headers.
func (s *Service) recordsCSV(records []models.InspectionRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for _, line := range headerLines(s.now()) {
		if err := w.Write([]string{line}); err != nil {
			return nil, fmt.Errorf("write csv header: %w", err)
		}
	}
	if err := w.Write(recordColumns); err != nil {
		return nil, fmt.Errorf("write csv columns: %w", err)
	}

	for _, rec := range records {
		if err := w.Write(recordRow(rec)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// metricCSV writes the aggregated key/value table variant.
func (s *Service) metricCSV(metric models.DerivedMetric, categories []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for _, line := range headerLines(s.now()) {
		if err := w.Write([]string{line}); err != nil {
			return nil, fmt.Errorf("write csv header: %w", err)
		}
	}
	if err := w.Write([]string{"Metric", "Value"}); err != nil {
		return nil, fmt.Errorf("write csv columns: %w", err)
	}

	for _, row := range metricRows(metric, categories) {
		if err := w.Write([]string{row[0], row[1]}); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
