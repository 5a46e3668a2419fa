package xlcatalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlcatalog/internal/logger"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/anchor"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/assets"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/catalog"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/models"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/parser"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/publish"
)

// Result summarizes a completed run.
type Result struct {
	Catalog *models.Catalog
	// ImagesDetected counts every picture in the sheet drawing.
	ImagesDetected int
	Assets         []models.LocalAsset
	Publish        publish.Summary
	Elapsed        time.Duration
}

// Pipeline runs the extract, correlate, materialize, publish and assemble
// stages in order.
type Pipeline struct {
	fs    afero.Fs
	store publish.Store
	now   func() time.Time
	newID func() string
}

type Option func(*Pipeline)

// WithFs sets the filesystem outputs are written to.
func WithFs(fs afero.Fs) Option {
	return func(p *Pipeline) { p.fs = fs }
}

// WithStore enables publishing to store. Without it every imageUrl is null.
func WithStore(store publish.Store) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		fs:    afero.NewOsFs(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one batch. Fatal errors (SchemaError, SourceNotFoundError,
// LocalIOError, cancellation) return before the catalog is written.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	start := p.now()
	runID := p.newID()
	log := logger.FromContext(ctx).With("run_id", runID)
	ctx = logger.ContextWithLogger(ctx, log)

	if _, err := os.Stat(opts.SourcePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceNotFoundError{Path: opts.SourcePath}
		}
		return nil, err
	}

	log.Info("Loading workbook", "path", opts.SourcePath)
	f, err := excelize.OpenFile(opts.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	sheet, err := parser.ReadSheet(f, opts.Sheet)
	if err != nil {
		return nil, &ExtractionError{SheetName: opts.Sheet, Component: "cells", Err: err}
	}
	log.Info("Using sheet", "sheet", sheet.Name, "rows", sheet.MaxRow, "cols", sheet.MaxCol)

	schema, err := parser.ResolveSchema(sheet, opts.HeaderRow)
	if err != nil {
		return nil, err
	}
	if len(schema.MissingOptional) > 0 {
		log.Info("Optional columns missing", "columns", schema.MissingOptional)
	}
	barcodeCol, _ := schema.Columns.Column(parser.BarcodeColumn)
	log.Info("Header resolved", "header_row", opts.HeaderRow, "barcode_column", barcodeCol, "image_column", opts.ImageColumn)

	rows := parser.ExtractRows(sheet, schema)
	log.Info("Products loaded", "count", len(rows))

	images, err := parser.ExtractPictures(opts.SourcePath, sheet.Name)
	if err != nil {
		return nil, &ExtractionError{SheetName: sheet.Name, Component: "pictures", Err: err}
	}
	log.Info("Images detected in sheet", "count", len(images))

	anchored := anchor.Correlate(ctx, images, opts.ImageColumn, schema, rows)
	log.Info("Images matched to product rows", "count", len(anchored))

	localAssets, err := assets.NewMaterializer(p.fs, assets.Options{
		Dir:     opts.ImagesDir,
		MaxEdge: opts.MaxImageEdge,
	}).Materialize(ctx, anchored)
	if err != nil {
		return nil, err
	}

	res := &Result{ImagesDetected: len(images), Assets: localAssets}
	urls := map[int]string{}
	if p.store != nil && len(localAssets) > 0 {
		log.Info("Uploading images", "count", len(localAssets), "make_public", opts.MakePublic)
		published, err := publish.NewPublisher(p.store, p.fs, publish.Options{
			FolderID:    opts.FolderID,
			MakePublic:  opts.MakePublic,
			Concurrency: opts.Concurrency,
			Permission:  opts.Permission,
		}).Publish(ctx, localAssets)
		if err != nil {
			return nil, err
		}
		urls = published.URLs
		res.Publish = published.Summary
		log.Info("Upload step done", "urls", len(urls), "failed", published.Summary.UploadFailed,
			"fallbacks", published.Summary.Fallbacks)
	} else if p.store == nil {
		log.Info("Remote publishing disabled; image URLs will be null")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := catalog.Assemble(rows, urls, catalog.Run{
		ID:               runID,
		SourceFile:       opts.SourcePath,
		Sheet:            sheet.Name,
		HeaderRow:        opts.HeaderRow,
		ImageColumnIndex: opts.ImageColumn,
		MakePublic:       opts.MakePublic,
		ImagesExtracted:  len(localAssets),
		GeneratedAt:      p.now(),
	})
	if err := catalog.Write(p.fs, opts.CatalogPath, doc, opts.Pretty); err != nil {
		return nil, &LocalIOError{Op: "write", Path: opts.CatalogPath, Err: err}
	}

	res.Catalog = doc
	res.Elapsed = p.now().Sub(start)
	log.Info("Done",
		"products", doc.Meta.Count,
		"images_extracted", doc.Meta.ImagesExtracted,
		"images_uploaded", doc.Meta.ImagesUploaded,
		"images_dir", opts.ImagesDir,
		"catalog", opts.CatalogPath,
		"elapsed", res.Elapsed.Round(time.Millisecond),
	)
	return res, nil
}
