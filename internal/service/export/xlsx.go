package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ovotrace/ovotrace/internal/domain/models"
)

const sheetName = "Report"

// newWorkbook opens a workbook with the institutional header block in the
// first rows and returns the row index after it.
func (s *Service) newWorkbook() (*excelize.File, int, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, 0, fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	for _, line := range headerLines(s.now()) {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheetName, cell, line); err != nil {
			return nil, 0, fmt.Errorf("write workbook header: %w", err)
		}
		row++
	}
	return f, row + 1, nil
}

func (s *Service) recordsXLSX(title string, records []models.InspectionRecord) ([]byte, error) {
	f, row, err := s.newWorkbook()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetCellValue(sheetName, cell, title); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}
	row += 2

	for col, name := range recordColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, fmt.Errorf("write column header: %w", err)
		}
	}
	row++

	for _, rec := range records {
		for col, value := range recordRow(rec) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write record row: %w", err)
			}
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) metricXLSX(title string, metric models.DerivedMetric, categories []string) ([]byte, error) {
	f, row, err := s.newWorkbook()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetCellValue(sheetName, cell, title); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}
	row += 2

	for _, kv := range metricRows(metric, categories) {
		keyCell, _ := excelize.CoordinatesToCellName(1, row)
		valCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(sheetName, keyCell, kv[0]); err != nil {
			return nil, fmt.Errorf("write metric key: %w", err)
		}
		if err := f.SetCellValue(sheetName, valCell, kv[1]); err != nil {
			return nil, fmt.Errorf("write metric value: %w", err)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
