// Package anchor binds embedded images to the product rows they sit on.
package anchor

import (
	"context"
	"fmt"
	"sort"

	"github.com/ukaji3/xlcatalog/internal/logger"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/models"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/parser"
)

// Correlate keeps the images anchored in imageColumn (1-based) on a row that
// has a ProductRow, and returns them sorted by row.
//
// Images are visited in drawing document order. When several images land on
// the same row the last one visited wins and the replacement is logged.
func Correlate(
	ctx context.Context,
	images []models.EmbeddedImage,
	imageColumn int,
	schema models.HeaderSchema,
	rows []models.ProductRow,
) []models.AnchoredImage {
	log := logger.FromContext(ctx)

	byRow := make(map[int]*models.ProductRow, len(rows))
	for i := range rows {
		byRow[rows[i].Row] = &rows[i]
	}
	barcodeLabel, hasBarcode := schema.Label(parser.BarcodeColumn)

	ordered := make([]models.EmbeddedImage, len(images))
	copy(ordered, images)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })

	bound := make(map[int]models.AnchoredImage)
	names := make(map[int]string)
	for _, img := range ordered {
		row, col := img.Anchor.Cell()
		if col != imageColumn {
			continue
		}
		product, ok := byRow[row]
		if !ok {
			log.Debug("Skipping image without product row", "row", row, "picture", img.Name, "position", img.Position)
			continue
		}

		seed := fmt.Sprintf("row_%d", row)
		if hasBarcode {
			if v, ok := product.Get(barcodeLabel); ok {
				if s, ok := seedValue(v); ok {
					seed = s
				}
			}
		}

		if prev, dup := bound[row]; dup {
			log.Warn("Multiple images anchored to one row, keeping the later one",
				"row", row, "replaced_seed", prev.Seed, "replaced_picture", names[row],
				"picture", img.Name, "position", img.Position)
		}
		names[row] = img.Name
		bound[row] = models.AnchoredImage{
			Row:  row,
			Seed: SanitizeSeed(seed),
			Ext:  imageExtension(img.Format, img.Data),
			Data: img.Data,
		}
	}

	result := make([]models.AnchoredImage, 0, len(bound))
	for _, a := range bound {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Row < result[j].Row })
	return result
}
