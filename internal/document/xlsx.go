package document

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads every sheet of an XLSX container, in workbook order. The
// first row of each sheet is its header; sheets with no rows stay empty.
func ParseXLSX(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}

		var table Table
		if len(rows) > 0 {
			table.Header = rows[0]
			table.Rows = rows[1:]
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Table: table})
	}

	return wb, nil
}

// ParseXLS reads a legacy BIFF workbook. Cell values only; formatting is not
// carried over, and output is always serialized as XLSX.
func ParseXLS(data []byte) (*Workbook, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open XLS: %w", err)
	}

	wb := &Workbook{}
	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		if sheet == nil {
			continue
		}

		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}

		var table Table
		if len(rows) > 0 {
			table.Header = rows[0]
			table.Rows = rows[1:]
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: sheet.Name, Table: table})
	}

	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("XLS workbook has no sheets")
	}

	return wb, nil
}

// MarshalXLSX serializes a workbook to a single XLSX container, one output
// sheet per input sheet, same names and order.
func MarshalXLSX(wb *Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range wb.Sheets {
		if i == 0 {
			// Rename the default sheet rather than leaving an empty Sheet1.
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return nil, fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
			}
		}

		if len(sheet.Header) == 0 && len(sheet.Rows) == 0 {
			continue
		}

		rows := make([][]string, 0, len(sheet.Rows)+1)
		rows = append(rows, sheet.Header)
		rows = append(rows, sheet.Rows...)

		for r, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell name: %w", err)
			}
			if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write row %d of sheet %q: %w", r+1, sheet.Name, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize XLSX: %w", err)
	}
	return buf.Bytes(), nil
}
