package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-pdf/fpdf"

	"github.com/ovotrace/ovotrace/internal/domain/models"
)

const imagePlaceholder = "failed to load"

// newPDF builds a portrait A4 document with the institutional header block
// on every page and a page-number footer.
func (s *Service) newPDF(title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 30, 12)
	pdf.SetAutoPageBreak(true, 18)

	pdf.SetHeaderFunc(func() {
		pdf.SetY(10)
		pdf.SetFont("Helvetica", "B", 11)
		for i, line := range headerLines(s.now()) {
			if i > 0 {
				pdf.SetFont("Helvetica", "", 8)
			}
			pdf.CellFormat(0, 4.5, line, "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
		pdf.Ln(2)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	return pdf
}

// recordsPDF renders the full-page paginated record log. With withImages set
// it fetches and embeds one image per record; a record whose image cannot be
// fetched or decoded gets a placeholder cell, and the export carries on.
func (s *Service) recordsPDF(ctx context.Context, title string, records []models.InspectionRecord, withImages bool) ([]byte, error) {
	pdf := s.newPDF(title)
	pdf.AddPage()

	colWidths := []float64{42, 32, 24, 22, 28}
	rowHeight := 7.0
	if withImages {
		rowHeight = 20
	}

	pdf.SetFont("Helvetica", "B", 9)
	for i, name := range recordColumns {
		pdf.CellFormat(colWidths[i], 7, name, "1", 0, "L", false, 0, "")
	}
	if withImages {
		pdf.CellFormat(30, 7, "Image", "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for idx, rec := range records {
		y := pdf.GetY()
		for i, value := range recordRow(rec) {
			pdf.CellFormat(colWidths[i], rowHeight, value, "1", 0, "L", false, 0, "")
		}
		if withImages {
			x := pdf.GetX()
			pdf.CellFormat(30, rowHeight, "", "1", 0, "L", false, 0, "")
			s.placeRecordImage(ctx, pdf, rec, idx, x, y)
		}
		pdf.Ln(-1)
	}

	if len(records) == 0 {
		pdf.CellFormat(0, 8, "No records in the selected period.", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// placeRecordImage draws the record's image into its cell, or the
// placeholder text when fetching or decoding fails. Per-record failures are
// logged and swallowed so one broken image never aborts the other rows.
func (s *Service) placeRecordImage(ctx context.Context, pdf *fpdf.Fpdf, rec models.InspectionRecord, idx int, x, y float64) {
	placeholder := func() {
		pdf.SetXY(x+2, y)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(26, 20, imagePlaceholder, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(x+30, y)
	}

	if s.images == nil || rec.ImageID == "" {
		placeholder()
		return
	}

	data, err := s.images.Fetch(ctx, rec.BatchID, rec.ImageID)
	if err != nil {
		s.logger.Warn("image fetch failed, using placeholder")
		placeholder()
		return
	}

	// A corrupt payload would poison fpdf's sticky error state, so decode
	// before registering.
	_, kind, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		s.logger.Warn("image decode failed, using placeholder")
		placeholder()
		return
	}

	name := fmt.Sprintf("record-%d", idx)
	opts := fpdf.ImageOptions{ImageType: kind, ReadDpi: true}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, x+2, y+2, 26, 16, false, opts, 0, "")
	pdf.SetXY(x+30, y)
}

// metricPDF renders the simple key/value table variant used for aggregated
// metrics.
func (s *Service) metricPDF(title string, metric models.DerivedMetric, categories []string) ([]byte, error) {
	pdf := s.newPDF(title)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(70, 7, "Metric", "1", 0, "L", false, 0, "")
	pdf.CellFormat(70, 7, "Value", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, kv := range metricRows(metric, categories) {
		pdf.CellFormat(70, 7, kv[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 7, kv[1], "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize pdf: %w", err)
	}
	return buf.Bytes(), nil
}
