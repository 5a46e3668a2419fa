package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/models"
)

// RequiredColumns must be present in the header row.
var RequiredColumns = []string{"barcode", "case_size", "name", "price"}

// OptionalColumns are reported when absent but never fail the run.
var OptionalColumns = []string{"country_of_origin", "brand"}

// BarcodeColumn is the normalized header whose value seeds image file names.
const BarcodeColumn = "barcode"

// SchemaError reports required columns missing from the header row.
type SchemaError struct {
	HeaderRow int
	Missing   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s) in header row %d: %s (expected, case-insensitive: %s)",
		e.HeaderRow, strings.Join(e.Missing, ", "), strings.Join(RequiredColumns, ", "))
}

// ResolveSchema reads the header row across every used column and builds the
// column map. Blank header cells are labelled col_<n>. When a normalized name
// repeats, the first column keeps it.
func ResolveSchema(sheet *Sheet, headerRow int) (models.HeaderSchema, error) {
	schema := models.HeaderSchema{
		Row:     headerRow,
		Columns: make(models.ColumnMap),
		Labels:  make([]string, 0, sheet.MaxCol),
	}

	for col := 1; col <= sheet.MaxCol; col++ {
		label := strings.TrimSpace(sheet.Cell(headerRow, col))
		if label == "" {
			label = "col_" + strconv.Itoa(col)
		}
		schema.Labels = append(schema.Labels, label)

		key := models.NormalizeHeader(label)
		if _, seen := schema.Columns[key]; !seen {
			schema.Columns[key] = col
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := schema.Columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return schema, &SchemaError{HeaderRow: headerRow, Missing: missing}
	}

	for _, name := range OptionalColumns {
		if _, ok := schema.Columns[name]; !ok {
			schema.MissingOptional = append(schema.MissingOptional, name)
		}
	}
	return schema, nil
}
