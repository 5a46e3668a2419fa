// Package gdrive implements publish.Store on Google Drive.
package gdrive

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/publish"
)

const (
	directURLFormat = "https://drive.google.com/uc?id=%s"
	viewURLFormat   = "https://drive.google.com/file/d/%s/view"
)

// Store uploads files to Drive through an authorized service.
type Store struct {
	svc *drive.Service
}

var _ publish.Store = (*Store)(nil)

// New builds a Store; opts must carry credentials (a token source or an
// authorized HTTP client).
func New(ctx context.Context, opts ...option.ClientOption) (*Store, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Store{svc: svc}, nil
}

func (s *Store) Upload(ctx context.Context, name string, body io.Reader, parentID string) (string, error) {
	meta := &drive.File{Name: name}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	created, err := s.svc.Files.Create(meta).Media(body).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("drive create %s: %w", name, err)
	}
	return created.Id, nil
}

func (s *Store) GrantPublicRead(ctx context.Context, id string) error {
	perm := &drive.Permission{Type: "anyone", Role: "reader"}
	if _, err := s.svc.Permissions.Create(id, perm).Fields("id").Context(ctx).Do(); err != nil {
		return fmt.Errorf("drive permission %s: %w", id, err)
	}
	return nil
}

func (s *Store) Links(id string) publish.Links {
	return publish.Links{
		Direct: fmt.Sprintf(directURLFormat, id),
		View:   fmt.Sprintf(viewURLFormat, id),
	}
}
