package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/dhyhn5012/ward-tracker/internal/domain/catalog"
	"github.com/dhyhn5012/ward-tracker/internal/domain/order"
	"github.com/dhyhn5012/ward-tracker/pkg/dateutil"
)

// Invalidator clears cached reads after a write.
type Invalidator interface {
	Clear()
}

// OrderWriter is the slice of the order store the patient lifecycle needs:
// quick-pick orders at admission and cascade cleanup at delete.
type OrderWriter interface {
	Create(ctx context.Context, o *order.Order) error
	DeleteByPatient(ctx context.Context, patientID int64) error
}

// RoundWriter removes a patient's ward-round notes during cascade delete.
type RoundWriter interface {
	DeleteByPatient(ctx context.Context, patientID int64) error
}

// TxFunc runs fn inside a database transaction. A nil TxFunc runs fn
// directly, which keeps unit tests free of a real pool.
type TxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo    Repository
	orders  OrderWriter
	rounds  RoundWriter
	catalog *catalog.Catalog
	cache   Invalidator
	tx      TxFunc
	now     func() time.Time
}

func NewService(repo Repository, orders OrderWriter, rounds RoundWriter, cat *catalog.Catalog, cache Invalidator, tx TxFunc) *Service {
	return &Service{repo: repo, orders: orders, rounds: rounds, catalog: cat, cache: cache, tx: tx, now: time.Now}
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx(ctx, fn)
}

// AdmitRequest carries the admission form. Exactly one of DOBDetail, Age
// or BirthYear is expected; detail wins over age, age over year.
type AdmitRequest struct {
	MedicalID            string   `json:"medical_id"`
	Name                 string   `json:"name"`
	DOBDetail            *string  `json:"dob,omitempty"`
	Age                  *int     `json:"age,omitempty"`
	BirthYear            int      `json:"birth_year,omitempty"`
	Ward                 string   `json:"ward"`
	Bed                  string   `json:"bed"`
	AdmissionDate        string   `json:"admission_date"`
	Diagnosis            string   `json:"diagnosis"`
	Severity             *int     `json:"severity,omitempty"`
	SurgeryNeeded        bool     `json:"surgery_needed"`
	PlannedTreatmentDays *int     `json:"planned_treatment_days,omitempty"`
	Meds                 string   `json:"meds"`
	Notes                string   `json:"notes"`
	QuickOrders          []string `json:"quick_orders,omitempty"`
	QuickOrderDate       string   `json:"quick_order_date,omitempty"`
}

// Admit registers a new patient and, in the same transaction, creates one
// scheduled order per quick-pick test label. Labels must resolve in the
// catalog; an unknown label rejects the whole admission.
func (s *Service) Admit(ctx context.Context, req *AdmitRequest) (*Patient, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	admission := req.AdmissionDate
	if admission == "" {
		admission = dateutil.Format(s.now())
	}

	// Resolve all quick-pick labels before touching the database.
	tests := make([]catalog.Test, 0, len(req.QuickOrders))
	for _, label := range req.QuickOrders {
		t, ok := s.catalog.Lookup(label)
		if !ok {
			return nil, fmt.Errorf("unknown test: %s", label)
		}
		tests = append(tests, t)
	}

	p := &Patient{
		MedicalID:            req.MedicalID,
		Name:                 req.Name,
		DOB:                  dateutil.ResolveBirthDate(req.DOBDetail, req.Age, req.BirthYear, s.now()),
		Ward:                 req.Ward,
		Bed:                  req.Bed,
		AdmissionDate:        admission,
		Diagnosis:            req.Diagnosis,
		Severity:             req.Severity,
		SurgeryNeeded:        req.SurgeryNeeded,
		PlannedTreatmentDays: req.PlannedTreatmentDays,
		Meds:                 req.Meds,
		Notes:                req.Notes,
		Active:               true,
	}

	err := s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		if len(tests) == 0 {
			return nil
		}
		scheduled := req.QuickOrderDate
		if scheduled == "" {
			scheduled = admission
		}
		today := dateutil.Format(s.now())
		for _, t := range tests {
			o := &order.Order{
				PatientID:     p.ID,
				OrderType:     t.Category,
				Description:   t.Description,
				DateOrdered:   today,
				ScheduledDate: &scheduled,
				Status:        order.StatusScheduled,
			}
			if err := s.orders.Create(ctx, o); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Clear()
	return p, nil
}

// Discharge marks the patient as gone today. Calling it again on an
// already discharged patient just moves the discharge date.
func (s *Service) Discharge(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	today := dateutil.Format(s.now())
	if err := s.repo.SetDischarge(ctx, id, &today, false); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

// UndoDischarge puts the patient back on the active list.
func (s *Service) UndoDischarge(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetDischarge(ctx, id, nil, true); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

// Edit replaces the patient's mutable fields. Active is derived from the
// discharge date, never taken from the caller.
func (s *Service) Edit(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := s.repo.GetByID(ctx, p.ID); err != nil {
		return err
	}
	if p.DischargeDate != nil && *p.DischargeDate == "" {
		p.DischargeDate = nil
	}
	p.Active = p.DischargeDate == nil
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

// Delete removes the patient together with their orders and ward-round
// notes, all in one transaction.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.inTx(ctx, func(ctx context.Context) error {
		if err := s.orders.DeleteByPatient(ctx, id); err != nil {
			return err
		}
		if err := s.rounds.DeleteByPatient(ctx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListActive(ctx context.Context, ward string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.ListActive(ctx, ward, limit, offset)
}

func (s *Service) Wards(ctx context.Context) ([]string, error) {
	return s.repo.DistinctWards(ctx)
}
