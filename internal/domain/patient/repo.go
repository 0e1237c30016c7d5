package patient

import "context"

// Repository is the storage contract for patients.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error

	// ListActive returns active patients, optionally filtered by ward
	// (empty = all wards), with the total before paging.
	ListActive(ctx context.Context, ward string, limit, offset int) ([]*Patient, int, error)
	List(ctx context.Context) ([]*Patient, error)

	// ActiveBetween returns patients whose stay overlaps [start, end]:
	// admitted on or before end and not discharged before start.
	ActiveBetween(ctx context.Context, start, end string) ([]*Patient, error)
	AdmittedBetween(ctx context.Context, start, end string) ([]*Patient, error)
	CountDischargedBetween(ctx context.Context, start, end string) (int, error)
	DistinctWards(ctx context.Context) ([]string, error)

	SetOperated(ctx context.Context, id int64, operated bool) error
	SetDischarge(ctx context.Context, id int64, dischargeDate *string, active bool) error
}
