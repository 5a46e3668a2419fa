// Package parser reads the workbook: cell grid, header schema, product rows
// and the pictures embedded in the sheet drawing.
package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is the raw cell grid of one worksheet.
type Sheet struct {
	Name string
	// Rows holds raw cell values, index 0 = row 1. Trailing empty cells
	// of a row may be missing.
	Rows [][]string
	// Types holds the stored cell type of each non-empty cell in Rows.
	// Missing entries read as CellTypeUnset, the OOXML default for numbers.
	Types [][]excelize.CellType
	// MaxRow and MaxCol are the 1-based bounds of the used range.
	MaxRow int
	MaxCol int
}

// ReadSheet loads the named sheet, or the first sheet when name is empty.
// Cell values are read unformatted so numbers keep their stored precision.
func ReadSheet(f *excelize.File, name string) (*Sheet, error) {
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		name = sheets[0]
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	types, err := cellTypes(f, name, rows)
	if err != nil {
		return nil, err
	}

	_, maxRow, _, maxCol := findDataBounds(rows)
	return &Sheet{
		Name:   name,
		Rows:   rows,
		Types:  types,
		MaxRow: maxRow + 1,
		MaxCol: maxCol + 1,
	}, nil
}

// cellTypes looks up the stored type of every non-empty cell so text that
// happens to look numeric is never coerced.
func cellTypes(f *excelize.File, sheet string, rows [][]string) ([][]excelize.CellType, error) {
	types := make([][]excelize.CellType, len(rows))
	for r, row := range rows {
		types[r] = make([]excelize.CellType, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, fmt.Errorf("cell type %s!%s: %w", sheet, cell, err)
			}
			types[r][c] = typ
		}
	}
	return types, nil
}

// Cell returns the raw value at a 1-based position, "" when out of range.
func (s *Sheet) Cell(row, col int) string {
	if row < 1 || row > len(s.Rows) {
		return ""
	}
	r := s.Rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

// CellType returns the stored type at a 1-based position.
func (s *Sheet) CellType(row, col int) excelize.CellType {
	if row < 1 || row > len(s.Types) {
		return excelize.CellTypeUnset
	}
	r := s.Types[row-1]
	if col < 1 || col > len(r) {
		return excelize.CellTypeUnset
	}
	return r[col-1]
}

// findDataBounds finds the 0-based bounding box of non-empty cells; all -1
// when the grid is empty.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}
