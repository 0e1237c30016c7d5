package wardround

import "context"

// Repository is the storage contract for ward-round notes.
type Repository interface {
	Create(ctx context.Context, n *Note) error
	ListByPatient(ctx context.Context, patientID int64) ([]*Note, error)
	// ListByPatientAndDate returns a single day's notes, newest first.
	ListByPatientAndDate(ctx context.Context, patientID int64, visitDate string) ([]*Note, error)
	DistinctVisitDates(ctx context.Context, patientID int64) ([]string, error)
	ListByVisitDate(ctx context.Context, visitDate string) ([]*Note, error)
	List(ctx context.Context) ([]*Note, error)
	DeleteByPatient(ctx context.Context, patientID int64) error
}
