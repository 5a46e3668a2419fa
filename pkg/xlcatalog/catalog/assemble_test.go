package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/models"
)

func row(n int, name string) models.ProductRow {
	p := models.ProductRow{Row: n}
	p.Set("name", name)
	p.Set(models.RowNumberField, n)
	return p
}

func TestAssemble(t *testing.T) {
	rows := []models.ProductRow{row(5, "a"), row(6, "b"), row(7, "c")}
	urls := map[int]string{5: "https://drive.google.com/uc?id=1", 7: "https://drive.google.com/file/d/3/view"}
	run := Run{
		ID:               "run-1",
		SourceFile:       "/data/pc_data.xlsx",
		Sheet:            "Sheet1",
		HeaderRow:        4,
		ImageColumnIndex: 14,
		MakePublic:       true,
		ImagesExtracted:  3,
		GeneratedAt:      time.Date(2026, 10, 15, 8, 30, 0, 0, time.FixedZone("X", 3600)),
	}

	doc := Assemble(rows, urls, run)

	assert.Equal(t, models.CatalogMeta{
		GeneratedAt:      "2026-10-15T07:30:00.000000Z",
		RunID:            "run-1",
		SourceFile:       "pc_data.xlsx",
		Sheet:            "Sheet1",
		Count:            3,
		ImagesExtracted:  3,
		ImagesUploaded:   2,
		MakePublic:       true,
		HeaderRow:        4,
		ImageColumnIndex: 14,
	}, doc.Meta)

	url, ok := doc.Products[1].Get(models.ImageURLField)
	assert.True(t, ok)
	assert.Nil(t, url)
	url, _ = doc.Products[2].Get(models.ImageURLField)
	assert.Equal(t, "https://drive.google.com/file/d/3/view", url)
}

func TestAssemble_NoRows(t *testing.T) {
	doc := Assemble(nil, nil, Run{})
	assert.NotNil(t, doc.Products)
	assert.Zero(t, doc.Meta.Count)
}

func TestWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := Assemble([]models.ProductRow{row(5, "a")}, map[int]string{}, Run{GeneratedAt: time.Unix(0, 0)})

	require.NoError(t, Write(fs, "docs/out/catalog.json", doc, true))

	data, err := afero.ReadFile(fs, "docs/out/catalog.json")
	require.NoError(t, err)

	var back struct {
		Meta     map[string]any   `json:"meta"`
		Products []map[string]any `json:"products"`
	}
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back.Products, 1)
	assert.Nil(t, back.Products[0]["imageUrl"])
	assert.Contains(t, back.Products[0], "imageUrl")
	assert.EqualValues(t, 1, back.Meta["count"])
}
