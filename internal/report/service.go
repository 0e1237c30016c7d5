package report

import (
	"context"
	"fmt"
	"time"

	"github.com/dhyhn5012/ward-tracker/internal/domain/order"
	"github.com/dhyhn5012/ward-tracker/internal/domain/patient"
	"github.com/dhyhn5012/ward-tracker/internal/domain/wardround"
	"github.com/dhyhn5012/ward-tracker/internal/platform/querycache"
	"github.com/dhyhn5012/ward-tracker/pkg/dateutil"
)

// Service computes the derived views. Reads go through the query cache;
// the lifecycle services clear it on every write, so a dashboard rendered
// right after a mutation sees fresh rows.
type Service struct {
	patients patient.Repository
	orders   order.Repository
	rounds   wardround.Repository
	cache    *querycache.Cache
	now      func() time.Time
}

func NewService(patients patient.Repository, orders order.Repository, rounds wardround.Repository, cache *querycache.Cache) *Service {
	return &Service{patients: patients, orders: orders, rounds: rounds, cache: cache, now: time.Now}
}

func (s *Service) today() string {
	return dateutil.Format(s.now())
}

func (s *Service) activePatients(ctx context.Context, ward string) ([]*patient.Patient, error) {
	v, err := s.cache.GetOrLoad(ctx, querycache.Key("patients.active", ward), func(ctx context.Context) (interface{}, error) {
		rows, _, err := s.patients.ListActive(ctx, ward, 10000, 0)
		return rows, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]*patient.Patient), nil
}

func (s *Service) allPatients(ctx context.Context) ([]*patient.Patient, error) {
	v, err := s.cache.GetOrLoad(ctx, "patients.all", func(ctx context.Context) (interface{}, error) {
		return s.patients.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*patient.Patient), nil
}

func (s *Service) allOrders(ctx context.Context) ([]*order.Order, error) {
	v, err := s.cache.GetOrLoad(ctx, "orders.all", func(ctx context.Context) (interface{}, error) {
		return s.orders.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*order.Order), nil
}

// DashboardStats is the front-page KPI bundle.
type DashboardStats struct {
	Date                 string         `json:"date"`
	TotalActive          int            `json:"total_active"`
	PatientsPerWard      []WardCount    `json:"patients_per_ward"`
	AvgTreatmentDays     float64        `json:"avg_treatment_days"`
	WaitingSurgery       int            `json:"waiting_surgery"`
	PendingOrderPatients int            `json:"pending_order_patients"`
	OverdueOrders        int            `json:"overdue_orders"`
	OrderStatuses        map[string]int `json:"order_statuses"`
	TodaysRounds         []RoundPlan    `json:"todays_rounds"`
}

// Dashboard assembles the KPI bundle, optionally restricted to one ward.
func (s *Service) Dashboard(ctx context.Context, ward string) (*DashboardStats, error) {
	today := s.today()

	active, err := s.activePatients(ctx, ward)
	if err != nil {
		return nil, err
	}
	orders, err := s.allOrders(ctx)
	if err != nil {
		return nil, err
	}
	rounds, err := s.todaysNotes(ctx, today)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Date:                 today,
		TotalActive:          len(active),
		PatientsPerWard:      PatientsPerWard(active),
		AvgTreatmentDays:     AverageTreatmentDays(active, today),
		WaitingSurgery:       WaitingSurgeryCount(active),
		PendingOrderPatients: PendingOrderPatientCount(orders),
		OverdueOrders:        OverdueOrderCount(orders, today),
		OrderStatuses:        OrderStatusHistogram(orders),
		TodaysRounds:         TodaysRoundsWithPlan(rounds, active, today),
	}, nil
}

func (s *Service) allNotes(ctx context.Context) ([]*wardround.Note, error) {
	v, err := s.cache.GetOrLoad(ctx, "rounds.all", func(ctx context.Context) (interface{}, error) {
		return s.rounds.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*wardround.Note), nil
}

// LatestPlans maps each patient to the plan of their most recent note,
// the current treatment direction shown next to the patient row.
func (s *Service) LatestPlans(ctx context.Context) (map[int64]string, error) {
	notes, err := s.allNotes(ctx)
	if err != nil {
		return nil, err
	}
	return LatestPlanPerPatient(notes), nil
}

func (s *Service) todaysNotes(ctx context.Context, today string) ([]*wardround.Note, error) {
	v, err := s.cache.GetOrLoad(ctx, querycache.Key("rounds.day", today), func(ctx context.Context) (interface{}, error) {
		return s.rounds.ListByVisitDate(ctx, today)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*wardround.Note), nil
}

// TodaysRounds is the standalone round-plan listing for the current day.
func (s *Service) TodaysRounds(ctx context.Context) ([]RoundPlan, error) {
	today := s.today()
	active, err := s.activePatients(ctx, "")
	if err != nil {
		return nil, err
	}
	notes, err := s.todaysNotes(ctx, today)
	if err != nil {
		return nil, err
	}
	return TodaysRoundsWithPlan(notes, active, today), nil
}

// OrderRow is an order joined with patient display fields for reports.
type OrderRow struct {
	OrderID     int64  `json:"order_id"`
	PatientID   int64  `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Ward        string `json:"ward"`
	OrderType   string `json:"order_type"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// DailyReport is the point-in-time census for one day: who was in a bed,
// and what was scheduled.
type DailyReport struct {
	Date        string             `json:"date"`
	CensusCount int                `json:"census_count"`
	Census      []*patient.Patient `json:"census"`
	OrderCount  int                `json:"order_count"`
	Orders      []OrderRow         `json:"orders"`
}

// Daily builds the census report for day (today when empty).
func (s *Service) Daily(ctx context.Context, day string) (*DailyReport, error) {
	if day == "" {
		day = s.today()
	} else if _, err := dateutil.Parse(day); err != nil {
		return nil, err
	}

	census, err := s.patients.ActiveBetween(ctx, day, day)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListScheduledBetween(ctx, day, day)
	if err != nil {
		return nil, err
	}
	all, err := s.allPatients(ctx)
	if err != nil {
		return nil, err
	}

	return &DailyReport{
		Date:        day,
		CensusCount: len(census),
		Census:      census,
		OrderCount:  len(orders),
		Orders:      joinOrders(orders, all),
	}, nil
}

func joinOrders(orders []*order.Order, patients []*patient.Patient) []OrderRow {
	byID := map[int64]*patient.Patient{}
	for _, p := range patients {
		byID[p.ID] = p
	}
	rows := make([]OrderRow, len(orders))
	for i, o := range orders {
		row := OrderRow{
			OrderID:     o.ID,
			PatientID:   o.PatientID,
			OrderType:   o.OrderType,
			Description: o.Description,
			Status:      o.Status,
		}
		// A deleted patient leaves the display fields blank, not an error.
		if p, ok := byID[o.PatientID]; ok {
			row.PatientName = p.Name
			row.Ward = p.Ward
		}
		rows[i] = row
	}
	return rows
}

// MonthlyReport counts and lists admissions in one calendar month.
type MonthlyReport struct {
	Month          string             `json:"month"`
	AdmissionCount int                `json:"admission_count"`
	Admissions     []*patient.Patient `json:"admissions"`
}

// Monthly builds the admissions report for month "YYYY-MM" (current month
// when empty).
func (s *Service) Monthly(ctx context.Context, month string) (*MonthlyReport, error) {
	if month == "" {
		month = s.now().Format("2006-01")
	}
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("parse month %q: %w", month, err)
	}
	start := dateutil.Format(first)
	end := dateutil.Format(first.AddDate(0, 1, -1))

	admissions, err := s.patients.AdmittedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &MonthlyReport{
		Month:          month,
		AdmissionCount: len(admissions),
		Admissions:     admissions,
	}, nil
}

// WeekStats summarizes one Monday-to-Sunday week.
type WeekStats struct {
	Start          string  `json:"start"`
	End            string  `json:"end"`
	Census         int     `json:"census"`
	AvgOverlapDays float64 `json:"avg_overlap_days"`
	Discharges     int     `json:"discharges"`
	Orders         int     `json:"orders"`
}

// WeeklyComparison pairs the requested week with the one before it.
type WeeklyComparison struct {
	Week     WeekStats `json:"week"`
	Previous WeekStats `json:"previous"`
}

// Weekly compares the week at offset (0 = current, negative = past)
// against the week before it.
func (s *Service) Weekly(ctx context.Context, offset int) (*WeeklyComparison, error) {
	week, err := s.weekStats(ctx, offset)
	if err != nil {
		return nil, err
	}
	prev, err := s.weekStats(ctx, offset-1)
	if err != nil {
		return nil, err
	}
	return &WeeklyComparison{Week: week, Previous: prev}, nil
}

func (s *Service) weekStats(ctx context.Context, offset int) (WeekStats, error) {
	start, end, err := dateutil.WeekRange(s.today(), offset)
	if err != nil {
		return WeekStats{}, err
	}

	census, err := s.patients.ActiveBetween(ctx, start, end)
	if err != nil {
		return WeekStats{}, err
	}
	discharges, err := s.patients.CountDischargedBetween(ctx, start, end)
	if err != nil {
		return WeekStats{}, err
	}
	orders, err := s.orders.CountScheduledBetween(ctx, start, end)
	if err != nil {
		return WeekStats{}, err
	}

	return WeekStats{
		Start:          start,
		End:            end,
		Census:         len(census),
		AvgOverlapDays: AverageOverlapDays(census, start, end),
		Discharges:     discharges,
		Orders:         orders,
	}, nil
}

// Search runs the diacritic-insensitive patient search over all rows.
func (s *Service) Search(ctx context.Context, query string) ([]*patient.Patient, error) {
	all, err := s.allPatients(ctx)
	if err != nil {
		return nil, err
	}
	return SearchPatients(all, query), nil
}
