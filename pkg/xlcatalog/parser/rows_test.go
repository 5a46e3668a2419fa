package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/models"
)

func TestExtractRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Price list")
	f.SetSheetRow(sheetName, "A2", &[]any{"Barcode", "Name", "Case Size", "Price"})
	f.SetSheetRow(sheetName, "A3", &[]any{"880123", "Soap", 12, 3.5})
	f.SetCellValue(sheetName, "B4", "   ")
	f.SetSheetRow(sheetName, "A6", &[]any{nil, "Orphan", nil, nil})

	s := openSheet(t, saveWorkbook(t, f), sheetName)
	schema, err := ResolveSchema(s, 2)
	require.NoError(t, err)

	rows := ExtractRows(s, schema)
	require.Len(t, rows, 2)

	assert.Equal(t, 3, rows[0].Row)
	barcode, _ := rows[0].Get("Barcode")
	assert.Equal(t, "880123", barcode)
	caseSize, _ := rows[0].Get("Case Size")
	assert.Equal(t, int64(12), caseSize)
	price, _ := rows[0].Get("Price")
	assert.Equal(t, 3.5, price)
	rowNum, _ := rows[0].Get(models.RowNumberField)
	assert.Equal(t, 3, rowNum)

	assert.Equal(t, 6, rows[1].Row)
	barcode, ok := rows[1].Get("Barcode")
	assert.True(t, ok)
	assert.Nil(t, barcode)
}

func TestExtractRows_KeepsTextCellsVerbatim(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetSheetRow(sheetName, "A1", &[]any{"Barcode", "Case Size", "Name", "Price", "Active"})
	for cell, text := range map[string]string{
		"A2": "0012345678905",
		"B2": "1e3",
		"C2": "7",
		"D2": "0x1p4",
	} {
		require.NoError(t, f.SetCellStr(sheetName, cell, text))
	}
	require.NoError(t, f.SetCellBool(sheetName, "E2", true))
	require.NoError(t, f.SetCellInt(sheetName, "B3", 24))
	require.NoError(t, f.SetCellFloat(sheetName, "D3", 19.99, -1, 64))
	require.NoError(t, f.SetCellStr(sheetName, "A3", "880"))

	s := openSheet(t, saveWorkbook(t, f), sheetName)
	schema, err := ResolveSchema(s, 1)
	require.NoError(t, err)

	rows := ExtractRows(s, schema)
	require.Len(t, rows, 2)

	want := map[string]any{
		"Barcode":   "0012345678905",
		"Case Size": "1e3",
		"Name":      "7",
		"Price":     "0x1p4",
		"Active":    true,
	}
	for label, expected := range want {
		got, _ := rows[0].Get(label)
		assert.Equal(t, expected, got, label)
	}

	barcode, _ := rows[1].Get("Barcode")
	assert.Equal(t, "880", barcode)
	caseSize, _ := rows[1].Get("Case Size")
	assert.Equal(t, int64(24), caseSize)
	price, _ := rows[1].Get("Price")
	assert.Equal(t, 19.99, price)
}

func TestCellValue(t *testing.T) {
	assert.Nil(t, cellValue("", excelize.CellTypeSharedString))
	assert.Equal(t, int64(42), cellValue("42", excelize.CellTypeUnset))
	assert.Equal(t, 2.5, cellValue("2.5", excelize.CellTypeNumber))
	assert.Equal(t, "042", cellValue("042", excelize.CellTypeSharedString))
	assert.Equal(t, "1e3", cellValue("1e3", excelize.CellTypeInlineString))
	assert.Equal(t, "12", cellValue("12", excelize.CellTypeFormula))
	assert.Equal(t, false, cellValue("0", excelize.CellTypeBool))
}

func TestExtractRows_UsesSheetWidth(t *testing.T) {
	s := &Sheet{
		Rows: [][]string{
			{"barcode", "name", "price", "case_size"},
			{"", "", "", "", "note"},
		},
		MaxRow: 2,
		MaxCol: 5,
	}
	schema, err := ResolveSchema(s, 1)
	require.NoError(t, err)

	rows := ExtractRows(s, schema)
	require.Len(t, rows, 1)
	note, _ := rows[0].Get("col_5")
	assert.Equal(t, "note", note)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"hello", "hello"},
		{"NaN", "NaN"},
		{"inf", "inf"},
		{"", ""},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}

func TestFindDataBounds(t *testing.T) {
	minRow, maxRow, minCol, maxCol := findDataBounds([][]string{{}, {"", "x"}, {"a", "", "", "b"}})
	assert.Equal(t, []int{1, 2, 0, 3}, []int{minRow, maxRow, minCol, maxCol})

	minRow, maxRow, _, _ = findDataBounds(nil)
	assert.Equal(t, -1, minRow)
	assert.Equal(t, -1, maxRow)
}
