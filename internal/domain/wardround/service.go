package wardround

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

// OrderWriter creates the follow-up orders a round selects.
type OrderWriter interface {
	Create(ctx context.Context, o *order.Order) error
}

// PatientFlagger updates the operated flag recorded during the round.
type PatientFlagger interface {
	SetOperated(ctx context.Context, id int64, operated bool) error
}

// TxFunc runs fn inside a database transaction. Nil runs fn directly.
type TxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo     Repository
	orders   OrderWriter
	patients PatientFlagger
	catalog  *catalog.Catalog
	cache    Invalidator
	tx       TxFunc
	now      func() time.Time
}

func NewService(repo Repository, orders OrderWriter, patients PatientFlagger, cat *catalog.Catalog, cache Invalidator, tx TxFunc) *Service {
	return &Service{repo: repo, orders: orders, patients: patients, catalog: cat, cache: cache, tx: tx, now: time.Now}
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx(ctx, fn)
}

// RecordRequest is one ward-round form submission. ExtraTests holds
// catalog labels; ScheduledDate applies to all of them.
type RecordRequest struct {
	PatientID      int64    `json:"patient_id"`
	VisitDate      string   `json:"visit_date"`
	GeneralStatus  string   `json:"general_status"`
	SystemExam     string   `json:"system_exam"`
	Plan           string   `json:"plan"`
	ExtraTests     []string `json:"extra_tests,omitempty"`
	ExtraTestsNote string   `json:"extra_tests_note"`
	ScheduledDate  string   `json:"scheduled_date,omitempty"`
	Operated       bool     `json:"operated"`
}

// Record saves a round in one transaction: operated flag, the immutable
// note, then one scheduled order per selected test. The rationale is
// appended to each order description when present.
func (s *Service) Record(ctx context.Context, req *RecordRequest) (*Note, error) {
	if req.PatientID <= 0 {
		return nil, fmt.Errorf("patient_id is required")
	}
	visit := req.VisitDate
	if visit == "" {
		visit = dateutil.Format(s.now())
	}

	// Resolve all labels before touching the database.
	tests := make([]catalog.Test, 0, len(req.ExtraTests))
	for _, label := range req.ExtraTests {
		t, ok := s.catalog.Lookup(label)
		if !ok {
			return nil, fmt.Errorf("unknown test: %s", label)
		}
		tests = append(tests, t)
	}

	n := &Note{
		PatientID:      req.PatientID,
		VisitDate:      visit,
		GeneralStatus:  req.GeneralStatus,
		SystemExam:     req.SystemExam,
		Plan:           req.Plan,
		ExtraTests:     JoinTests(req.ExtraTests),
		ExtraTestsNote: req.ExtraTestsNote,
		CreatedAt:      s.now().Format(dateutil.TimestampLayout),
	}

	err := s.inTx(ctx, func(ctx context.Context) error {
		if err := s.patients.SetOperated(ctx, req.PatientID, req.Operated); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, n); err != nil {
			return err
		}

		today := dateutil.Format(s.now())
		scheduled := req.ScheduledDate
		if scheduled == "" {
			scheduled = today
		}
		for _, t := range tests {
			desc := t.Description
			if req.ExtraTestsNote != "" {
				desc = t.Description + " — " + req.ExtraTestsNote
			}
			o := &order.Order{
				PatientID:     req.PatientID,
				OrderType:     t.Category,
				Description:   desc,
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
	return n, nil
}

// History returns the patient's distinct visit dates, newest first.
func (s *Service) History(ctx context.Context, patientID int64) ([]string, error) {
	return s.repo.DistinctVisitDates(ctx, patientID)
}

// NotesByDay returns one visit day's notes for a patient, newest first.
func (s *Service) NotesByDay(ctx context.Context, patientID int64, visitDate string) ([]*Note, error) {
	return s.repo.ListByPatientAndDate(ctx, patientID, visitDate)
}

func (s *Service) NotesByPatient(ctx context.Context, patientID int64) ([]*Note, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// TodaysNotes returns every note written for today's visit date.
func (s *Service) TodaysNotes(ctx context.Context) ([]*Note, error) {
	return s.repo.ListByVisitDate(ctx, dateutil.Format(s.now()))
}
