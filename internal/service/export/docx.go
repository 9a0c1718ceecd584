package export

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"

	"github.com/ovotrace/ovotrace/internal/domain/models"
)

const docxTableWidth = 9000

// newDocument opens a word document with the institutional header block and
// the report title as leading paragraphs.
func (s *Service) newDocument(title string) *docx.Docx {
	doc := docx.New().WithDefaultTheme()

	for _, line := range headerLines(s.now()) {
		doc.AddParagraph().AddText(line)
	}
	doc.AddParagraph() // spacer
	doc.AddParagraph().AddText(title).Size("28")

	return doc
}

// recordsDOCX writes the record-table document variant.
func (s *Service) recordsDOCX(title string, records []models.InspectionRecord) ([]byte, error) {
	doc := s.newDocument(title)

	table := doc.AddTable(len(records)+1, len(recordColumns), docxTableWidth, nil)
	for col, name := range recordColumns {
		table.TableRows[0].TableCells[col].AddParagraph().AddText(name).Bold()
	}
	for i, rec := range records {
		for col, value := range recordRow(rec) {
			table.TableRows[i+1].TableCells[col].AddParagraph().AddText(value)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize docx: %w", err)
	}
	return buf.Bytes(), nil
}

// metricDOCX writes the key/value table document variant used for
// aggregated metrics.
func (s *Service) metricDOCX(title string, metric models.DerivedMetric, categories []string) ([]byte, error) {
	doc := s.newDocument(title)

	rows := metricRows(metric, categories)
	table := doc.AddTable(len(rows)+1, 2, docxTableWidth, nil)
	table.TableRows[0].TableCells[0].AddParagraph().AddText("Metric").Bold()
	table.TableRows[0].TableCells[1].AddParagraph().AddText("Value").Bold()
	for i, kv := range rows {
		table.TableRows[i+1].TableCells[0].AddParagraph().AddText(kv[0])
		table.TableRows[i+1].TableCells[1].AddParagraph().AddText(kv[1])
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize docx: %w", err)
	}
	return buf.Bytes(), nil
}
