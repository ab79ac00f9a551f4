// Package export renders a conversion result for transport. The unified
// column list becomes the header in first-seen order; cells a row does not
// have are rendered as empty strings.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/docparse/convertd/internal/pipeline"
)

// CSV renders the result as header+rows CSV bytes.
func CSV(res *pipeline.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(res.Columns); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	record := make([]string, len(res.Columns))
	for _, row := range res.Rows {
		for i, col := range res.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX renders the result as an XLSX workbook with a single sheet.
func XLSX(res *pipeline.Result) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Extracted"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, col := range res.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col)
	}
	for r, row := range res.Rows {
		for i, col := range res.Columns {
			if row[col] == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			_ = f.SetCellValue(sheet, cell, row[col])
		}
	}

	if len(res.Columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(res.Columns))
		_ = f.SetColWidth(sheet, "A", last, 18)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
