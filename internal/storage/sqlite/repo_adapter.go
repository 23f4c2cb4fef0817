package sqlite

import (
	"context"

	"songdb/internal/storage"
)

// newRepository is swapped by tests that must not touch a real file.
var newRepository = NewRepository

// wrappedRepo exposes a *Repository as storage.Repository. Close runs the
// cleanup from NewRepository at most once.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn == nil {
		return
	}
	w.closeFn()
	w.closeFn = nil
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:           cfg.DSN,
			Table:         cfg.Table,
			Columns:       cfg.Columns,
			ProgressEvery: cfg.ProgressEvery,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
}
