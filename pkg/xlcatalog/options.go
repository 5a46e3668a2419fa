// Package xlcatalog turns a product spreadsheet with embedded images into a
// catalog document with published image URLs.
package xlcatalog

import (
	"time"

	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/retry"
)

// Options configures a run.
type Options struct {
	// SourcePath is the .xlsx workbook to read.
	SourcePath string
	// Sheet selects a sheet by name; empty means the first sheet.
	Sheet string
	// HeaderRow is the 1-based header row.
	HeaderRow int
	// ImageColumn is the 1-based column images are anchored to.
	ImageColumn int

	// CatalogPath is where the catalog document is written.
	CatalogPath string
	// ImagesDir receives the extracted image files.
	ImagesDir string
	// Pretty indents the catalog JSON.
	Pretty bool
	// MaxImageEdge downscales larger images; 0 keeps original bytes.
	MaxImageEdge int

	// FolderID is the remote parent folder; empty uploads to the default location.
	FolderID string
	// MakePublic grants public read on uploaded images.
	MakePublic bool
	// Concurrency bounds parallel uploads.
	Concurrency int
	// Permission is the retry policy for public read grants.
	Permission retry.Policy
}

// DefaultOptions returns the options matching the reference sheet layout.
func DefaultOptions() Options {
	return Options{
		HeaderRow:   4,
		ImageColumn: 14,
		CatalogPath: "catalog.json",
		ImagesDir:   "out_images",
		Pretty:      true,
		MakePublic:  true,
		Concurrency: 1,
		Permission:  retry.Default(),
	}
}

// WithRetry sets the permission policy to attempts tries with a linear step.
func (o Options) WithRetry(attempts int, step time.Duration) Options {
	o.Permission = retry.Policy{MaxAttempts: attempts, Backoff: retry.Linear(step)}
	return o
}
