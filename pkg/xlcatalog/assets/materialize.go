// Package assets writes correlated images to the local output directory.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"

	"github.com/ukaji3/xlcatalog/internal/logger"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/models"
)

// LocalIOError reports a failed local filesystem operation. It is fatal for
// the run.
type LocalIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("local %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error {
	return e.Err
}

// Options configures materialization.
type Options struct {
	// Dir is the output directory; it is created when missing.
	Dir string
	// MaxEdge downscales images whose longest edge exceeds it. 0 keeps the
	// original bytes.
	MaxEdge int
}

// Materializer writes images under deterministic names.
type Materializer struct {
	fs   afero.Fs
	opts Options
}

func NewMaterializer(fs afero.Fs, opts Options) *Materializer {
	return &Materializer{fs: fs, opts: opts}
}

// Materialize writes each image in input order. The first image with a given
// seed is named seed.ext; the Nth one seed_N.ext, skipping ahead when that
// name was already written in this run. Files left by earlier runs are
// overwritten.
func (m *Materializer) Materialize(ctx context.Context, images []models.AnchoredImage) ([]models.LocalAsset, error) {
	log := logger.FromContext(ctx)

	if err := m.fs.MkdirAll(m.opts.Dir, 0o755); err != nil {
		return nil, &LocalIOError{Op: "mkdir", Path: m.opts.Dir, Err: err}
	}

	seen := make(map[string]int, len(images))
	taken := make(map[string]bool, len(images))
	assets := make([]models.LocalAsset, 0, len(images))
	for i, img := range images {
		seen[img.Seed]++
		n := seen[img.Seed]
		name := FileName(img.Seed, img.Ext, n)
		// A suffixed name may already belong to a literal seed such as "A_2".
		for taken[name] {
			n++
			name = FileName(img.Seed, img.Ext, n)
		}
		taken[name] = true
		path := filepath.Join(m.opts.Dir, name)

		data := img.Data
		if m.opts.MaxEdge > 0 {
			data = m.downscale(ctx, data, img.Ext)
		}
		if err := afero.WriteFile(m.fs, path, data, 0o644); err != nil {
			return nil, &LocalIOError{Op: "write", Path: path, Err: err}
		}

		assets = append(assets, models.LocalAsset{Row: img.Row, Path: path})
		if n := i + 1; n%25 == 0 || n == len(images) {
			log.Info("Saved images", "done", n, "total", len(images))
		}
	}
	return assets, nil
}

// FileName builds the name for the nth occurrence (1-based) of a seed.
func FileName(seed, ext string, n int) string {
	if n <= 1 {
		return seed + "." + ext
	}
	return seed + "_" + strconv.Itoa(n) + "." + ext
}

// downscale fits data into MaxEdge×MaxEdge. Undecodable or already small
// images are returned unchanged.
func (m *Materializer) downscale(ctx context.Context, data []byte, ext string) []byte {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return data
	}
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		logger.FromContext(ctx).Debug("Keeping original image bytes", "error", err)
		return data
	}
	if !exceeds(src.Bounds(), m.opts.MaxEdge) {
		return data
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Fit(src, m.opts.MaxEdge, m.opts.MaxEdge, imaging.Lanczos), format); err != nil {
		return data
	}
	return buf.Bytes()
}

func exceeds(b image.Rectangle, edge int) bool {
	return b.Dx() > edge || b.Dy() > edge
}
