package xlcatalog

import (
	"errors"
	"fmt"

	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/assets"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/parser"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/publish"
)

// ErrSourceNotFound indicates the input workbook does not exist.
var ErrSourceNotFound = errors.New("source workbook not found")

// ErrInvalidFormat indicates the input file is not a readable xlsx workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// Fatal errors abort the run before the catalog is written.
type (
	// SchemaError reports required header columns that are missing.
	SchemaError = parser.SchemaError
	// LocalIOError reports an unwritable output location.
	LocalIOError = assets.LocalIOError
)

// Per-row errors are logged and reflected in the catalog, never returned.
type (
	// RemoteUploadError leaves the row without an image URL.
	RemoteUploadError = publish.UploadError
	// RemotePermissionError makes the row fall back to the view link.
	RemotePermissionError = publish.PermissionError
)

// SourceNotFoundError reports a missing input workbook.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source workbook not found: %s", e.Path)
}

func (e *SourceNotFoundError) Is(target error) bool {
	return target == ErrSourceNotFound
}

// ExtractionError represents a failure while reading one part of the workbook.
type ExtractionError struct {
	SheetName string
	Component string // "cells", "pictures"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
