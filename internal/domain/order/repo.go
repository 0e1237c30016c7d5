package order

import "context"

// Repository is the storage contract for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*Order, error)
	ListScheduledBetween(ctx context.Context, start, end string) ([]*Order, error)
	CountScheduledBetween(ctx context.Context, start, end string) (int, error)
	MarkDone(ctx context.Context, id int64, result, resultDate string) error
	DeleteByPatient(ctx context.Context, patientID int64) error
}
