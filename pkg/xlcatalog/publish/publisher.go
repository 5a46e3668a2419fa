package publish

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/xlcatalog/internal/logger"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/models"
	"github.com/ukaji3/xlcatalog/pkg/xlcatalog/retry"
)

// Options configures a publishing pass.
type Options struct {
	// FolderID is the remote parent folder; empty means the default location.
	FolderID string
	// MakePublic grants public read on every uploaded object.
	MakePublic bool
	// Concurrency bounds parallel uploads; values below 1 mean sequential.
	Concurrency int
	// Permission is the retry policy for granting public read.
	Permission retry.Policy
}

// Summary counts publishing outcomes.
type Summary struct {
	Attempted    int
	Uploaded     int
	UploadFailed int
	// Fallbacks counts rows that got the view link because public read
	// could not be granted.
	Fallbacks int
}

// Result maps a row to its resolved URL. Rows without a URL are absent.
type Result struct {
	URLs    map[int]string
	Summary Summary
}

// Publisher uploads local assets to a Store.
type Publisher struct {
	store Store
	fs    afero.Fs
	opts  Options
}

func NewPublisher(store Store, fs afero.Fs, opts Options) *Publisher {
	return &Publisher{store: store, fs: fs, opts: opts}
}

// Publish uploads every asset. Per-row failures are logged and never stop
// the other rows; the only error returned is context cancellation.
func (p *Publisher) Publish(ctx context.Context, assets []models.LocalAsset) (*Result, error) {
	log := logger.FromContext(ctx)

	ordered := make([]models.LocalAsset, len(assets))
	copy(ordered, assets)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Row < ordered[j].Row })

	res := &Result{URLs: make(map[int]string, len(ordered))}
	var mu sync.Mutex
	done := 0
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	limit := p.opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, asset := range ordered {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			url, outcome := p.publishOne(gctx, asset)

			mu.Lock()
			defer mu.Unlock()
			res.Summary.Attempted++
			switch outcome {
			case outcomeUploaded:
				res.URLs[asset.Row] = url
				res.Summary.Uploaded++
			case outcomeFallback:
				res.URLs[asset.Row] = url
				res.Summary.Uploaded++
				res.Summary.Fallbacks++
			case outcomeFailed:
				res.Summary.UploadFailed++
			}
			done++
			if done%10 == 0 || done == len(ordered) {
				elapsed := time.Since(start).Seconds()
				rate := 0.0
				if elapsed > 0 {
					rate = float64(done) / elapsed
				}
				log.Info("Uploaded images", "done", done, "total", len(ordered), "files_per_sec", rate)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeUploaded
	outcomeFallback
)

func (p *Publisher) publishOne(ctx context.Context, asset models.LocalAsset) (string, outcome) {
	log := logger.FromContext(ctx).With("row", asset.Row, "file", filepath.Base(asset.Path))

	id, err := p.upload(ctx, asset)
	if err != nil {
		log.Error("Upload failed", "error", &UploadError{Row: asset.Row, Path: asset.Path, Err: err})
		return "", outcomeFailed
	}

	links := p.store.Links(id)
	if !p.opts.MakePublic {
		return links.View, outcomeUploaded
	}

	policy := p.opts.Permission
	policy.OnFailure = func(attempt int, err error) {
		log.Warn("Public permission failed", "attempt", attempt, "max_attempts", policy.MaxAttempts, "error", err)
	}
	err = policy.Do(ctx, func(ctx context.Context, _ int) error {
		return p.store.GrantPublicRead(ctx, id)
	})
	if err == nil {
		return links.Direct, outcomeUploaded
	}

	attempts := 1
	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		attempts = exhausted.Attempts
	}
	log.Warn("Using view link", "error", &PermissionError{Row: asset.Row, ID: id, Attempts: attempts, Err: err})
	return links.View, outcomeFallback
}

func (p *Publisher) upload(ctx context.Context, asset models.LocalAsset) (string, error) {
	f, err := p.fs.Open(asset.Path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return p.store.Upload(ctx, filepath.Base(asset.Path), f, p.opts.FolderID)
}
