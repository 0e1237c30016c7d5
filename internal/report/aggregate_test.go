package report

import (
	"testing"

	"github.com/dhyhn5012/ward-tracker/internal/domain/order"
	"github.com/dhyhn5012/ward-tracker/internal/domain/patient"
	"github.com/dhyhn5012/ward-tracker/internal/domain/wardround"
)

func strp(s string) *string { return &s }

func TestEmptyAggregatesReturnZeroValues(t *testing.T) {
	if got := AverageTreatmentDays(nil, "2026-09-01"); got != 0 {
		t.Errorf("AverageTreatmentDays(nil) = %v", got)
	}
	if got := PatientsPerWard(nil); len(got) != 0 {
		t.Errorf("PatientsPerWard(nil) = %v", got)
	}
	if got := OrderStatusHistogram(nil); len(got) != 0 {
		t.Errorf("OrderStatusHistogram(nil) = %v", got)
	}
	if got := AverageOverlapDays(nil, "2026-09-01", "2026-09-07"); got != 0 {
		t.Errorf("AverageOverlapDays(nil) = %v", got)
	}
	if got := PendingOrderPatientCount(nil); got != 0 {
		t.Errorf("PendingOrderPatientCount(nil) = %v", got)
	}
	if got := LatestPlanPerPatient(nil); len(got) != 0 {
		t.Errorf("LatestPlanPerPatient(nil) = %v", got)
	}
}

func TestAverageTreatmentDays(t *testing.T) {
	patients := []*patient.Patient{
		{AdmissionDate: "2026-08-22"}, // 10 days
		{AdmissionDate: "2026-08-27"}, // 5 days
	}
	if got := AverageTreatmentDays(patients, "2026-09-01"); got != 7.5 {
		t.Errorf("got %v, want 7.5", got)
	}
}

func TestPatientsPerWardSortedByCountDesc(t *testing.T) {
	patients := []*patient.Patient{
		{Ward: "A"}, {Ward: "B"}, {Ward: "B"}, {Ward: "C"}, {Ward: "B"}, {Ward: "C"},
	}
	got := PatientsPerWard(patients)
	want := []WardCount{{"B", 3}, {"C", 2}, {"A", 1}}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPendingOrderPatientCountDistinct(t *testing.T) {
	orders := []*order.Order{
		{PatientID: 1, Status: order.StatusPending},
		{PatientID: 1, Status: order.StatusScheduled},
		{PatientID: 2, Status: order.StatusDone},
		{PatientID: 3, Status: order.StatusPending},
	}
	if got := PendingOrderPatientCount(orders); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestOverdueOrderCount(t *testing.T) {
	today := "2026-09-01"
	orders := []*order.Order{
		{Status: order.StatusScheduled, ScheduledDate: strp("2026-09-01")}, // due today: overdue
		{Status: order.StatusScheduled, ScheduledDate: strp("2026-09-02")}, // tomorrow: not yet
		{Status: order.StatusDone, ScheduledDate: strp("2026-08-01")},      // done never counts
		{Status: order.StatusPending},                                      // no schedule
		{Status: order.StatusPending, ScheduledDate: strp("2026-08-15")},   // past due
	}
	if got := OverdueOrderCount(orders, today); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestAverageOverlapDaysClampsBothEnds(t *testing.T) {
	stay := []*patient.Patient{
		{AdmissionDate: "2024-01-10", DischargeDate: strp("2024-01-20")},
	}
	if got := AverageOverlapDays(stay, "2024-01-01", "2024-01-31"); got != 11 {
		t.Errorf("full-stay window: got %v, want 11", got)
	}
	if got := AverageOverlapDays(stay, "2024-01-12", "2024-01-18"); got != 7 {
		t.Errorf("window inside stay: got %v, want 7", got)
	}
	if got := AverageOverlapDays(stay, "2024-01-21", "2024-01-25"); got != 0 {
		t.Errorf("window after discharge: got %v, want 0", got)
	}
}

func TestLatestPlanPerPatientUsesMaxID(t *testing.T) {
	notes := []*wardround.Note{
		{ID: 1, PatientID: 7, VisitDate: "2024-01-01", Plan: "first"},
		{ID: 2, PatientID: 7, VisitDate: "2024-01-05", Plan: "second"},
		{ID: 3, PatientID: 7, VisitDate: "2024-01-03", Plan: "third"},
	}
	plans := LatestPlanPerPatient(notes)
	// Highest id wins even though its visit date is not the latest.
	if plans[7] != "third" {
		t.Errorf("plan = %q, want %q", plans[7], "third")
	}
}

func TestTodaysRoundsWithPlan(t *testing.T) {
	today := "2026-09-01"
	patients := []*patient.Patient{
		{ID: 1, Name: "A", DOB: "1990-03-15", Ward: "B2", Bed: "3", Active: true},
		{ID: 2, Name: "B", Ward: "B1", Bed: "1", Active: true},
		{ID: 3, Name: "C", Ward: "B1", Bed: "2", Active: false},
	}
	notes := []*wardround.Note{
		{ID: 10, PatientID: 1, VisitDate: today, Plan: "old"},
		{ID: 12, PatientID: 1, VisitDate: today, Plan: "new"},
		{ID: 11, PatientID: 2, VisitDate: "2026-08-31", Plan: "yesterday"},
		{ID: 13, PatientID: 3, VisitDate: today, Plan: "discharged"},
	}

	got := TodaysRoundsWithPlan(notes, patients, today)
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].PatientID != 1 || got[0].Plan != "new" || got[0].NoteID != 12 {
		t.Errorf("row = %+v", got[0])
	}
	if got[0].Age != 36 {
		t.Errorf("age = %d, want 36 (born 1990-03-15)", got[0].Age)
	}
}

func TestWaitingSurgeryCount(t *testing.T) {
	patients := []*patient.Patient{
		{SurgeryNeeded: true},
		{SurgeryNeeded: true, Operated: true},
		{SurgeryNeeded: false},
	}
	if got := WaitingSurgeryCount(patients); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}
