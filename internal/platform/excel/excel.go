// Package excel converts named result sets into a spreadsheet workbook.
// The core hands over uniform rows; formatting stays here.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the sheet-name length Excel accepts.
const maxSheetName = 31

// Sheet is one named, uniform result set.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// Workbook renders the sheets into a single .xlsx file.
func Workbook(sheets []Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		name := sheet.Name
		if len(name) > maxSheetName {
			name = name[:maxSheetName]
		}

		idx, err := f.NewSheet(name)
		if err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
		})
		if err != nil {
			return nil, fmt.Errorf("create header style: %w", err)
		}

		if err := f.SetSheetRow(name, "A1", &sheet.Header); err != nil {
			return nil, fmt.Errorf("write header of %q: %w", name, err)
		}
		last, err := excelize.ColumnNumberToName(max(len(sheet.Header), 1))
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(name, "A1", last+"1", headerStyle); err != nil {
			return nil, fmt.Errorf("style header of %q: %w", name, err)
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return nil, fmt.Errorf("write row %d of %q: %w", r+2, name, err)
			}
		}
	}

	if len(sheets) > 0 {
		f.DeleteSheet("Sheet1")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
