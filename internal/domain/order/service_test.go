package order

import (
	"context"
	"testing"
)

type mockRepo struct {
	created   []*Order
	doneID    int64
	doneRes   string
	doneDate  string
	doneCalls int
	orders    []*Order
}

func (m *mockRepo) Create(ctx context.Context, o *Order) error {
	o.ID = int64(len(m.created) + 1)
	m.created = append(m.created, o)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) List(ctx context.Context) ([]*Order, error) { return m.orders, nil }

func (m *mockRepo) ListByPatient(ctx context.Context, patientID int64) ([]*Order, error) {
	var out []*Order
	for _, o := range m.orders {
		if o.PatientID == patientID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockRepo) ListScheduledBetween(ctx context.Context, start, end string) ([]*Order, error) {
	var out []*Order
	for _, o := range m.orders {
		if o.ScheduledDate != nil && *o.ScheduledDate >= start && *o.ScheduledDate <= end {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockRepo) CountScheduledBetween(ctx context.Context, start, end string) (int, error) {
	list, _ := m.ListScheduledBetween(ctx, start, end)
	return len(list), nil
}

func (m *mockRepo) MarkDone(ctx context.Context, id int64, result, resultDate string) error {
	m.doneCalls++
	m.doneID = id
	m.doneRes = result
	m.doneDate = resultDate
	for _, o := range m.orders {
		if o.ID == id {
			o.Status = StatusDone
			o.Result = &result
			o.ResultDate = &resultDate
		}
	}
	return nil
}

func (m *mockRepo) DeleteByPatient(ctx context.Context, patientID int64) error { return nil }

type mockCache struct{ clears int }

func (m *mockCache) Clear() { m.clears++ }

func newTestService(repo Repository, cache *mockCache) *Service {
	s := NewService(repo, cache)
	s.today = func() string { return "2026-09-01" }
	return s
}

func TestCreateOrderDefaults(t *testing.T) {
	repo := &mockRepo{}
	cache := &mockCache{}
	svc := newTestService(repo, cache)

	o := &Order{PatientID: 1, OrderType: "Lab"}
	if err := svc.CreateOrder(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	if o.Status != StatusPending {
		t.Errorf("status = %q, want pending", o.Status)
	}
	if o.DateOrdered != "2026-09-01" {
		t.Errorf("date_ordered = %q, want today", o.DateOrdered)
	}
	if o.ID == 0 {
		t.Error("id not assigned")
	}
	if cache.clears != 1 {
		t.Errorf("cache cleared %d times, want 1", cache.clears)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newTestService(&mockRepo{}, &mockCache{})

	if err := svc.CreateOrder(context.Background(), &Order{OrderType: "Lab"}); err == nil {
		t.Error("expected error for missing patient_id")
	}
	if err := svc.CreateOrder(context.Background(), &Order{PatientID: 1}); err == nil {
		t.Error("expected error for missing order_type")
	}
	if err := svc.CreateOrder(context.Background(), &Order{PatientID: 1, OrderType: "Lab", Status: "bogus"}); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestMarkDoneSetsResultAndDate(t *testing.T) {
	sched := "2026-08-30"
	repo := &mockRepo{orders: []*Order{
		{ID: 7, PatientID: 1, OrderType: "Lab", Status: StatusScheduled, ScheduledDate: &sched},
	}}
	cache := &mockCache{}
	svc := newTestService(repo, cache)

	if err := svc.MarkDone(context.Background(), 7, "WBC 11.2"); err != nil {
		t.Fatal(err)
	}
	if repo.doneID != 7 || repo.doneRes != "WBC 11.2" || repo.doneDate != "2026-09-01" {
		t.Errorf("MarkDone got (%d, %q, %q)", repo.doneID, repo.doneRes, repo.doneDate)
	}
	o := repo.orders[0]
	if !o.Done() || o.ResultDate == nil || *o.ResultDate != "2026-09-01" {
		t.Error("order not transitioned to done with today's result date")
	}
	if cache.clears != 1 {
		t.Errorf("cache cleared %d times, want 1", cache.clears)
	}
}

func TestMarkDoneAcceptsEmptyResult(t *testing.T) {
	repo := &mockRepo{orders: []*Order{{ID: 1, PatientID: 1, OrderType: "Lab", Status: StatusPending}}}
	svc := newTestService(repo, &mockCache{})

	if err := svc.MarkDone(context.Background(), 1, ""); err != nil {
		t.Fatal(err)
	}
	o := repo.orders[0]
	if o.Result == nil || *o.Result != "" {
		t.Error("empty result text must still be recorded")
	}
	if o.Status != StatusDone {
		t.Errorf("status = %q, want done", o.Status)
	}
}

func TestOverdueOn(t *testing.T) {
	past, today, future := "2026-08-20", "2026-09-01", "2026-09-10"
	cases := []struct {
		name string
		o    Order
		want bool
	}{
		{"scheduled in past", Order{Status: StatusScheduled, ScheduledDate: &past}, true},
		{"scheduled today", Order{Status: StatusScheduled, ScheduledDate: &today}, true},
		{"scheduled future", Order{Status: StatusScheduled, ScheduledDate: &future}, false},
		{"done in past", Order{Status: StatusDone, ScheduledDate: &past}, false},
		{"no schedule", Order{Status: StatusPending}, false},
	}
	for _, tc := range cases {
		if got := tc.o.OverdueOn(today); got != tc.want {
			t.Errorf("%s: OverdueOn = %v, want %v", tc.name, got, tc.want)
		}
	}
}
