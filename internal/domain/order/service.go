package order

import (
	"context"
	"fmt"

	"github.com/dhyhn5012/ward-tracker/pkg/dateutil"
)

// Invalidator clears cached reads after a write. Every mutating operation
// here must invalidate before the next read can observe stale rows.
type Invalidator interface {
	Clear()
}

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusScheduled: true,
	StatusDone:      true,
}

type Service struct {
	repo  Repository
	cache Invalidator
	today func() string
}

func NewService(repo Repository, cache Invalidator) *Service {
	return &Service{repo: repo, cache: cache, today: dateutil.Today}
}

// CreateOrder records an ad hoc order. Defaults: date ordered = today,
// status = pending.
func (s *Service) CreateOrder(ctx context.Context, o *Order) error {
	if o.PatientID <= 0 {
		return fmt.Errorf("patient_id is required")
	}
	if o.OrderType == "" {
		return fmt.Errorf("order_type is required")
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	if !validStatuses[o.Status] {
		return fmt.Errorf("invalid status: %s", o.Status)
	}
	if o.DateOrdered == "" {
		o.DateOrdered = s.today()
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

// MarkDone completes an order: status done, result text as given (empty
// allowed), result date = today. There is no guard against completing an
// already-done order; the result and date are simply overwritten.
func (s *Service) MarkDone(ctx context.Context, id int64, result string) error {
	if err := s.repo.MarkDone(ctx, id, result, s.today()); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]*Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListOrdersByPatient(ctx context.Context, patientID int64) ([]*Order, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// ListOrdersInWindow returns orders whose scheduled date falls in
// [start, end] inclusive.
func (s *Service) ListOrdersInWindow(ctx context.Context, start, end string) ([]*Order, error) {
	return s.repo.ListScheduledBetween(ctx, start, end)
}
