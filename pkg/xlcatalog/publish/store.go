// Package publish uploads materialized images to a remote store and resolves
// their public URLs.
package publish

import (
	"context"
	"fmt"
	"io"
)

// Links are the URLs derived from a stored object's identifier.
type Links struct {
	// Direct is suitable for embedding, e.g. in an img tag.
	Direct string
	// View opens the object in a browser.
	View string
}

// Store is the remote object-hosting capability the publisher needs. The
// handle is expected to be authorized already.
type Store interface {
	// Upload stores body under name, inside parentID when it is non-empty,
	// and returns the object identifier.
	Upload(ctx context.Context, name string, body io.Reader, parentID string) (string, error)
	// GrantPublicRead lets anyone read the object.
	GrantPublicRead(ctx context.Context, id string) error
	// Links derives the URLs for an object identifier.
	Links(id string) Links
}

// UploadError reports a failed byte upload. The row is published without a URL.
type UploadError struct {
	Row  int
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed for row %d (%s): %v", e.Row, e.Path, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// PermissionError reports that public read could not be granted after all
// attempts. The row falls back to the view link.
type PermissionError struct {
	Row      int
	ID       string
	Attempts int
	Err      error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("could not make object %s public for row %d after %d attempt(s): %v",
		e.ID, e.Row, e.Attempts, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}
