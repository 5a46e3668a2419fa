package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/models"
)

// ExtractRows reads every row below the header. Rows whose cells are all
// empty or whitespace are skipped; every other row becomes a ProductRow
// holding each column under its verbatim header label plus the row number.
func ExtractRows(sheet *Sheet, schema models.HeaderSchema) []models.ProductRow {
	var result []models.ProductRow

	for rowNum := schema.Row + 1; rowNum <= sheet.MaxRow; rowNum++ {
		hasData := false
		for col := 1; col <= len(schema.Labels); col++ {
			if strings.TrimSpace(sheet.Cell(rowNum, col)) != "" {
				hasData = true
				break
			}
		}
		if !hasData {
			continue
		}

		product := models.ProductRow{
			Row:    rowNum,
			Fields: make([]models.Field, 0, len(schema.Labels)+1),
		}
		for col, label := range schema.Labels {
			product.Set(label, cellValue(sheet.Cell(rowNum, col+1), sheet.CellType(rowNum, col+1)))
		}
		product.Set(models.RowNumberField, rowNum)
		result = append(result, product)
	}

	return result
}

// cellValue types a raw cell by its stored type. Only number cells (and
// untyped ones, which OOXML treats as numbers) are parsed; shared and inline
// strings stay verbatim so codes keep their leading zeros. Empty cells are nil.
func cellValue(raw string, typ excelize.CellType) any {
	if raw == "" {
		return nil
	}
	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		return parseValue(raw)
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	}
	return raw
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}
