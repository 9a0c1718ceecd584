package export

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ovotrace/ovotrace/internal/domain/models"
)

// Format tags a downloadable artifact type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatPNG  Format = "png"
)

// ParseFormat validates a format tag from a query parameter.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatXLSX, FormatPDF, FormatDOCX, FormatPNG:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Artifact is a fully serialized export ready to stream to the client.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageFetcher retrieves a stored inspection image for embedding into the
// paginated document export. Failures degrade per record, never per export.
type ImageFetcher interface {
	Fetch(ctx context.Context, batchID, imageID string) ([]byte, error)
}

// Service serializes records and derived metrics into downloadable files.
// Exports are single-shot and synchronous; a failed export surfaces one
// error to the caller who may simply re-invoke it.
type Service struct {
	images ImageFetcher
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the exporter. The image fetcher may be nil, in which case
// every embedded image renders as its placeholder.
func NewService(images ImageFetcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{images: images, logger: logger, now: time.Now}
}

// recordColumns is the fixed flattening of a record-level export row.
var recordColumns = []string{"Timestamp", "Batch ID", "Category", "Weight (g)", "Machine ID"}

func recordRow(rec models.InspectionRecord) []string {
	return []string{
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.BatchID,
		rec.Quality,
		strconv.FormatFloat(rec.WeightG, 'f', 1, 64),
		rec.MachineID,
	}
}

// metricRows flattens a DerivedMetric into key/value pairs, category order
// following the fixed label list used across the dashboard.
func metricRows(metric models.DerivedMetric, categories []string) [][2]string {
	rows := [][2]string{
		{"Total records", strconv.Itoa(metric.Total)},
	}
	for _, cat := range categories {
		count, ok := metric.Counts[cat]
		if !ok {
			continue
		}
		rows = append(rows, [2]string{
			cat,
			fmt.Sprintf("%d (%d%%)", count, metric.Percentages[cat]),
		})
	}
	rows = append(rows,
		[2]string{"Most common", orDash(metric.MostCommon)},
		[2]string{"Rate per hour", strconv.FormatFloat(metric.RatePerHour, 'f', 1, 64)},
		[2]string{"Trend vs previous period", trendLabel(metric.Trend)},
	)
	return rows
}

func trendLabel(trend *float64) string {
	if trend == nil {
		return "–"
	}
	return fmt.Sprintf("%+.1f%%", *trend)
}

func orDash(s string) string {
	if s == "" {
		return "–"
	}
	return s
}

func (s *Service) filename(prefix string, format Format) string {
	return fmt.Sprintf("%s_%s.%s", prefix, s.now().UTC().Format("20060102_150405"), format)
}

// ExportRecords serializes a record-level log into the requested format.
// withImages only affects the PDF variant, which embeds one fetched image
// per record.
func (s *Service) ExportRecords(ctx context.Context, title string, records []models.InspectionRecord, format Format, withImages bool) (Artifact, error) {
	switch format {
	case FormatCSV:
		data, err := s.recordsCSV(records)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: s.filename("records", format), ContentType: "text/csv; charset=utf-8", Data: data}, nil
	case FormatXLSX:
		data, err := s.recordsXLSX(title, records)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: s.filename("records", format), ContentType: contentTypeXLSX, Data: data}, nil
	case FormatPDF:
		data, err := s.recordsPDF(ctx, title, records, withImages)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: s.filename("records", format), ContentType: "application/pdf", Data: data}, nil
	case FormatDOCX:
		data, err := s.recordsDOCX(title, records)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: s.filename("records", format), ContentType: contentTypeDOCX, Data: data}, nil
	default:
		return Artifact{}, fmt.Errorf("record-level export does not support format %q", format)
	}
}

// ExportMetric serializes an aggregated DerivedMetric into the requested
// format. PNG renders the metric as a bar chart; the remaining formats emit
// the key/value table variant.
func (s *Service) ExportMetric(ctx context.Context, title string, metric models.DerivedMetric, categories []string, format Format) (Artifact, error) {
	switch format {
	case FormatCSV:
		data, err := s.metricCSV(metric, categories)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: s.filename("metrics", format), ContentType: "text/csv; charset=utf-8", Data: data}, nil
	case FormatXLSX:
		data, err := s.metricXLSX(title, metric, categories)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: s.filename("metrics", format), ContentType: contentTypeXLSX, Data: data}, nil
	case FormatPDF:
		data, err := s.metricPDF(title, metric, categories)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: s.filename("metrics", format), ContentType: "application/pdf", Data: data}, nil
	case FormatDOCX:
		data, err := s.metricDOCX(title, metric, categories)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: s.filename("metrics", format), ContentType: contentTypeDOCX, Data: data}, nil
	case FormatPNG:
		data, err := s.metricPNG(title, metric, categories)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: s.filename("chart", format), ContentType: "image/png", Data: data}, nil
	default:
		return Artifact{}, fmt.Errorf("metric export does not support format %q", format)
	}
}

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)
