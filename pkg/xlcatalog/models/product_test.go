package models

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Case Size":             "case_size",
		"case-size":             "case_size",
		"  BARCODE ":            "barcode",
		"Country  -  of Origin": "country_of_origin",
		"price":                 "price",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestProductRow_MarshalJSON(t *testing.T) {
	p := ProductRow{Row: 5}
	p.Set("Name", "Soap & Co")
	p.Set("Price", 1.5)
	p.Set("Barcode", int64(880))
	p.Set("Empty", nil)
	p.Set(RowNumberField, 5)
	p.Set("Price", 2.5)

	t.Run("Should keep field order and leave HTML characters alone", func(t *testing.T) {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		require.NoError(t, enc.Encode(p))
		assert.Equal(t, `{"Name":"Soap & Co","Price":2.5,"Barcode":880,"Empty":null,"_rowNumber":5}`+"\n", buf.String())
	})

	t.Run("Should still escape through json.Marshal", func(t *testing.T) {
		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.Equal(t, `{"Name":"Soap \u0026 Co","Price":2.5,"Barcode":880,"Empty":null,"_rowNumber":5}`, string(data))
	})
}

func TestHeaderSchema_Label(t *testing.T) {
	s := HeaderSchema{
		Columns: ColumnMap{"barcode": 2},
		Labels:  []string{"Name", "BARCODE"},
	}
	label, ok := s.Label("barcode")
	require.True(t, ok)
	assert.Equal(t, "BARCODE", label)

	_, ok = s.Label("price")
	assert.False(t, ok)
}
