package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dhyhn5012/ward-tracker/internal/domain/catalog"
	"github.com/dhyhn5012/ward-tracker/internal/domain/order"
)

type mockRepo struct {
	patients map[int64]*Patient
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: map[int64]*Patient{}, nextID: 1}
}

func (m *mockRepo) Create(ctx context.Context, p *Patient) error {
	p.ID = m.nextID
	m.nextID++
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return fmt.Errorf("patient %d: %w", p.ID, ErrNotFound)
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) ListActive(ctx context.Context, ward string, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		if p.Active && (ward == "" || p.Ward == ward) {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) List(ctx context.Context) ([]*Patient, error) { return nil, nil }

func (m *mockRepo) ActiveBetween(ctx context.Context, start, end string) ([]*Patient, error) {
	return nil, nil
}

func (m *mockRepo) AdmittedBetween(ctx context.Context, start, end string) ([]*Patient, error) {
	return nil, nil
}

func (m *mockRepo) CountDischargedBetween(ctx context.Context, start, end string) (int, error) {
	return 0, nil
}

func (m *mockRepo) DistinctWards(ctx context.Context) ([]string, error) { return nil, nil }

func (m *mockRepo) SetOperated(ctx context.Context, id int64, operated bool) error {
	if p, ok := m.patients[id]; ok {
		p.Operated = operated
	}
	return nil
}

func (m *mockRepo) SetDischarge(ctx context.Context, id int64, dischargeDate *string, active bool) error {
	p, ok := m.patients[id]
	if !ok {
		return fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	p.DischargeDate = dischargeDate
	p.Active = active
	return nil
}

type mockOrders struct {
	created     []*order.Order
	deletedFor  []int64
	failOnIndex int
}

func (m *mockOrders) Create(ctx context.Context, o *order.Order) error {
	if m.failOnIndex > 0 && len(m.created)+1 == m.failOnIndex {
		return fmt.Errorf("insert failed")
	}
	o.ID = int64(len(m.created) + 1)
	m.created = append(m.created, o)
	return nil
}

func (m *mockOrders) DeleteByPatient(ctx context.Context, patientID int64) error {
	m.deletedFor = append(m.deletedFor, patientID)
	return nil
}

type mockRounds struct {
	deletedFor []int64
}

func (m *mockRounds) DeleteByPatient(ctx context.Context, patientID int64) error {
	m.deletedFor = append(m.deletedFor, patientID)
	return nil
}

type mockCache struct{ clears int }

func (m *mockCache) Clear() { m.clears++ }

func fixedNow() time.Time {
	return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Test{
		{Category: "Lab", Description: "CBC"},
		{Category: "Imaging", Description: "Chest X-ray"},
	})
}

func newTestService(repo Repository, orders *mockOrders, rounds *mockRounds, cache *mockCache) *Service {
	s := NewService(repo, orders, rounds, testCatalog(), cache, nil)
	s.now = fixedNow
	return s
}

func seedPatient(repo *mockRepo) *Patient {
	p := &Patient{Name: "Nguyen Van A", Ward: "B1", Bed: "12", AdmissionDate: "2026-08-20", Active: true}
	_ = repo.Create(context.Background(), p)
	return p
}

func TestAdmitResolvesBirthDate(t *testing.T) {
	detail := "1980-05-17"
	age := 150

	cases := []struct {
		name string
		req  AdmitRequest
		want string
	}{
		{"detail wins", AdmitRequest{Name: "A", DOBDetail: &detail, BirthYear: 1999}, "1980-05-17"},
		{"year alone", AdmitRequest{Name: "A", BirthYear: 1975}, "1975-01-01"},
		{"age clamped to 1900", AdmitRequest{Name: "A", Age: &age}, "1900-01-01"},
		{"nothing", AdmitRequest{Name: "A"}, ""},
	}
	for _, tc := range cases {
		repo := newMockRepo()
		svc := newTestService(repo, &mockOrders{}, &mockRounds{}, &mockCache{})
		p, err := svc.Admit(context.Background(), &tc.req)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if p.DOB != tc.want {
			t.Errorf("%s: dob = %q, want %q", tc.name, p.DOB, tc.want)
		}
	}
}

func TestAdmitRequiresName(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockOrders{}, &mockRounds{}, &mockCache{})
	if _, err := svc.Admit(context.Background(), &AdmitRequest{}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestAdmitCreatesQuickOrders(t *testing.T) {
	repo := newMockRepo()
	orders := &mockOrders{}
	cache := &mockCache{}
	svc := newTestService(repo, orders, &mockRounds{}, cache)

	p, err := svc.Admit(context.Background(), &AdmitRequest{
		Name:           "Tran Thi B",
		AdmissionDate:  "2026-08-30",
		QuickOrders:    []string{"Lab — CBC", "Imaging — Chest X-ray"},
		QuickOrderDate: "2026-09-02",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(orders.created) != 2 {
		t.Fatalf("created %d orders, want 2", len(orders.created))
	}
	for _, o := range orders.created {
		if o.PatientID != p.ID {
			t.Errorf("order patient_id = %d, want %d", o.PatientID, p.ID)
		}
		if o.Status != order.StatusScheduled {
			t.Errorf("order status = %q, want scheduled", o.Status)
		}
		if o.ScheduledDate == nil || *o.ScheduledDate != "2026-09-02" {
			t.Error("order must carry the shared scheduled date")
		}
		if o.DateOrdered != "2026-09-01" {
			t.Errorf("date_ordered = %q, want today", o.DateOrdered)
		}
	}
	// Labels resolve to their catalog (category, description) pair, never
	// the raw display label.
	if orders.created[0].OrderType != "Lab" || orders.created[0].Description != "CBC" {
		t.Errorf("first order = (%q, %q), want (Lab, CBC)",
			orders.created[0].OrderType, orders.created[0].Description)
	}
	if orders.created[1].OrderType != "Imaging" || orders.created[1].Description != "Chest X-ray" {
		t.Errorf("second order = (%q, %q), want (Imaging, Chest X-ray)",
			orders.created[1].OrderType, orders.created[1].Description)
	}
	if cache.clears != 1 {
		t.Errorf("cache cleared %d times, want 1", cache.clears)
	}
}

func TestAdmitRejectsUnknownQuickOrder(t *testing.T) {
	repo := newMockRepo()
	orders := &mockOrders{}
	cache := &mockCache{}
	svc := newTestService(repo, orders, &mockRounds{}, cache)

	_, err := svc.Admit(context.Background(), &AdmitRequest{
		Name:        "Tran Thi B",
		QuickOrders: []string{"Lab — CBC", "Lab — Unknown panel"},
	})
	if err == nil {
		t.Fatal("expected error for a label outside the catalog")
	}
	if len(repo.patients) != 0 {
		t.Error("patient row written despite rejected label")
	}
	if len(orders.created) != 0 {
		t.Error("orders written despite rejected label")
	}
	if cache.clears != 0 {
		t.Error("cache cleared despite rejected admission")
	}
}

func TestDischargeIsIdempotent(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockOrders{}, &mockRounds{}, &mockCache{})
	p := seedPatient(repo)

	if err := svc.Discharge(context.Background(), p.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetByID(context.Background(), p.ID)
	if got.Active || got.DischargeDate == nil || *got.DischargeDate != "2026-09-01" {
		t.Fatalf("after discharge: active=%v discharge=%v", got.Active, got.DischargeDate)
	}

	// Second discharge must not fail, it just rewrites the date.
	if err := svc.Discharge(context.Background(), p.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.GetByID(context.Background(), p.ID)
	if got.Active || got.DischargeDate == nil {
		t.Error("second discharge changed the invariant")
	}
}

func TestUndoDischargeRestoresActive(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockOrders{}, &mockRounds{}, &mockCache{})
	p := seedPatient(repo)

	if err := svc.Discharge(context.Background(), p.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.UndoDischarge(context.Background(), p.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetByID(context.Background(), p.ID)
	if !got.Active || got.DischargeDate != nil {
		t.Errorf("after undo: active=%v discharge=%v", got.Active, got.DischargeDate)
	}
}

func TestEditDerivesActiveFromDischargeDate(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockOrders{}, &mockRounds{}, &mockCache{})
	p := seedPatient(repo)

	d := "2026-08-28"
	edited := *p
	edited.DischargeDate = &d
	edited.Active = true // caller lies; service must ignore it
	if err := svc.Edit(context.Background(), &edited); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetByID(context.Background(), p.ID)
	if got.Active {
		t.Error("active must follow discharge_date, not the request body")
	}

	edited.DischargeDate = nil
	edited.Active = false
	if err := svc.Edit(context.Background(), &edited); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.GetByID(context.Background(), p.ID)
	if !got.Active {
		t.Error("clearing discharge_date must reactivate the patient")
	}
}

func TestEditTreatsEmptyDischargeAsNil(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockOrders{}, &mockRounds{}, &mockCache{})
	p := seedPatient(repo)

	empty := ""
	edited := *p
	edited.DischargeDate = &empty
	if err := svc.Edit(context.Background(), &edited); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetByID(context.Background(), p.ID)
	if got.DischargeDate != nil || !got.Active {
		t.Error("empty discharge date must normalize to nil and stay active")
	}
}

func TestDeleteCascades(t *testing.T) {
	repo := newMockRepo()
	orders := &mockOrders{}
	rounds := &mockRounds{}
	cache := &mockCache{}
	svc := newTestService(repo, orders, rounds, cache)
	p := seedPatient(repo)

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(context.Background(), p.ID); err == nil {
		t.Error("patient row still present after delete")
	}
	if len(orders.deletedFor) != 1 || orders.deletedFor[0] != p.ID {
		t.Error("orders not cascade-deleted")
	}
	if len(rounds.deletedFor) != 1 || rounds.deletedFor[0] != p.ID {
		t.Error("ward rounds not cascade-deleted")
	}
	if cache.clears != 1 {
		t.Errorf("cache cleared %d times, want 1", cache.clears)
	}
}
