package dutyfile

import "context"

// Repository is the storage contract for duty-file registry rows.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id int64) (*Record, error)
	// ListByScope returns a scope's uploads, newest first.
	ListByScope(ctx context.Context, scope string) ([]*Record, error)
	List(ctx context.Context) ([]*Record, error)
}
