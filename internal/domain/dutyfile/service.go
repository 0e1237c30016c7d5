package dutyfile

import (
	"context"
	"io"
	"time"

	"github.com/dhyhn5012/ward-tracker/pkg/dateutil"
)

// Invalidator clears cached reads after a write.
type Invalidator interface {
	Clear()
}

type Service struct {
	repo  Repository
	store *Store
	cache Invalidator
	now   func() time.Time
}

func NewService(repo Repository, store *Store, cache Invalidator) *Service {
	return &Service{repo: repo, store: store, cache: cache, now: time.Now}
}

// Upload stores the file on disk first, then registers it. A failed
// registry insert leaves an orphan file behind, which is harmless; the
// reverse order could register a file that does not exist.
func (s *Service) Upload(ctx context.Context, scope, originalName, mimeType string, src io.Reader) (*Record, error) {
	if !ValidScope(scope) {
		return nil, ErrInvalidScope
	}
	path, err := s.store.Save(originalName, src)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Scope:        scope,
		OriginalName: originalName,
		MimeType:     mimeType,
		StoragePath:  path,
		UploadedAt:   s.now().Format(dateutil.TimestampLayout),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.cache.Clear()
	return rec, nil
}

func (s *Service) ListByScope(ctx context.Context, scope string) ([]*Record, error) {
	if !ValidScope(scope) {
		return nil, ErrInvalidScope
	}
	return s.repo.ListByScope(ctx, scope)
}

func (s *Service) List(ctx context.Context) ([]*Record, error) {
	return s.repo.List(ctx)
}

// Open returns the record together with a reader over its content.
func (s *Service) Open(ctx context.Context, id int64) (*Record, io.ReadCloser, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	rc, err := s.store.Open(rec.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return rec, rc, nil
}
