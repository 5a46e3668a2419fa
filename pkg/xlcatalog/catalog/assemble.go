// Package catalog merges product rows with published image URLs and writes
// the catalog document.
package catalog

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/models"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/output"
)

// Run identifies the run a catalog came from.
type Run struct {
	ID               string
	SourceFile       string
	Sheet            string
	HeaderRow        int
	ImageColumnIndex int
	MakePublic       bool
	ImagesExtracted  int
	GeneratedAt      time.Time
}

// Assemble attaches imageUrl to every row, null when urls has no entry, and
// fills the metadata block. rows are mutated in place.
func Assemble(rows []models.ProductRow, urls map[int]string, run Run) *models.Catalog {
	uploaded := 0
	for i := range rows {
		if url, ok := urls[rows[i].Row]; ok && url != "" {
			rows[i].Set(models.ImageURLField, url)
			uploaded++
			continue
		}
		rows[i].Set(models.ImageURLField, nil)
	}
	if rows == nil {
		rows = []models.ProductRow{}
	}

	return &models.Catalog{
		Meta: models.CatalogMeta{
			GeneratedAt:      run.GeneratedAt.UTC().Format("2006-01-02T15:04:05.000000Z"),
			RunID:            run.ID,
			SourceFile:       filepath.Base(run.SourceFile),
			Sheet:            run.Sheet,
			Count:            len(rows),
			ImagesExtracted:  run.ImagesExtracted,
			ImagesUploaded:   uploaded,
			MakePublic:       run.MakePublic,
			HeaderRow:        run.HeaderRow,
			ImageColumnIndex: run.ImageColumnIndex,
		},
		Products: rows,
	}
}

// Write serializes doc to path, creating the parent directory.
func Write(fs afero.Fs, path string, doc *models.Catalog, pretty bool) error {
	data, err := output.ToJSON(doc, pretty)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, append(data, '\n'), 0o644)
}
