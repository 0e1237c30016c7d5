// Package report derives dashboard statistics, census reports and weekly
// comparisons from the ward data. Everything in this file is a pure
// function over rows already fetched; all of them return zero values on
// empty input.
package report

import (
	"math"
	"sort"

	"github.com/dhyhn5012/ward-tracker/internal/domain/order"
	"github.com/dhyhn5012/ward-tracker/internal/domain/patient"
	"github.com/dhyhn5012/ward-tracker/internal/domain/wardround"
	"github.com/dhyhn5012/ward-tracker/pkg/dateutil"
)

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// AverageTreatmentDays is the mean of days since admission over the rows,
// rounded to one decimal. Rows with an unparsable admission date are
// skipped rather than failing the whole aggregate.
func AverageTreatmentDays(patients []*patient.Patient, today string) float64 {
	var sum, n int
	for _, p := range patients {
		days, err := dateutil.DaysBetween(p.AdmissionDate, today)
		if err != nil {
			continue
		}
		sum += days
		n++
	}
	if n == 0 {
		return 0
	}
	return round1(float64(sum) / float64(n))
}

// WardCount is one row of the patients-per-ward breakdown.
type WardCount struct {
	Ward  string `json:"ward"`
	Count int    `json:"count"`
}

// PatientsPerWard counts rows per ward, ordered by count descending with
// ward name as the tiebreak.
func PatientsPerWard(patients []*patient.Patient) []WardCount {
	counts := map[string]int{}
	for _, p := range patients {
		counts[p.Ward]++
	}
	out := make([]WardCount, 0, len(counts))
	for ward, n := range counts {
		out = append(out, WardCount{Ward: ward, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Ward < out[j].Ward
	})
	return out
}

// OrderStatusHistogram counts orders per status.
func OrderStatusHistogram(orders []*order.Order) map[string]int {
	hist := map[string]int{}
	for _, o := range orders {
		hist[o.Status]++
	}
	return hist
}

// PendingOrderPatientCount counts distinct patients with at least one
// order not yet done.
func PendingOrderPatientCount(orders []*order.Order) int {
	seen := map[int64]bool{}
	for _, o := range orders {
		if !o.Done() {
			seen[o.PatientID] = true
		}
	}
	return len(seen)
}

// OverdueOrderCount counts orders not done whose scheduled date has
// arrived.
func OverdueOrderCount(orders []*order.Order, today string) int {
	var n int
	for _, o := range orders {
		if o.OverdueOn(today) {
			n++
		}
	}
	return n
}

// WaitingSurgeryCount counts patients flagged for surgery that has not
// happened yet.
func WaitingSurgeryCount(patients []*patient.Patient) int {
	var n int
	for _, p := range patients {
		if p.WaitingSurgery() {
			n++
		}
	}
	return n
}

// AverageOverlapDays is the mean inclusive day count of each stay's
// intersection with [start, end], rounded to one decimal.
func AverageOverlapDays(patients []*patient.Patient, start, end string) float64 {
	var sum, n int
	for _, p := range patients {
		days, err := dateutil.OverlapDays(p.AdmissionDate, p.DischargeDate, start, end)
		if err != nil {
			continue
		}
		sum += days
		n++
	}
	if n == 0 {
		return 0
	}
	return round1(float64(sum) / float64(n))
}

// LatestPlanPerPatient maps each patient to the plan of their
// highest-id note. Note ids grow with insertion, so max id means most
// recently created, regardless of visit date.
func LatestPlanPerPatient(notes []*wardround.Note) map[int64]string {
	latest := map[int64]*wardround.Note{}
	for _, n := range notes {
		if cur, ok := latest[n.PatientID]; !ok || n.ID > cur.ID {
			latest[n.PatientID] = n
		}
	}
	plans := make(map[int64]string, len(latest))
	for pid, n := range latest {
		plans[pid] = n.Plan
	}
	return plans
}

// RoundPlan is today's latest note for one active patient, joined with
// display fields.
type RoundPlan struct {
	PatientID     int64  `json:"patient_id"`
	MedicalID     string `json:"medical_id"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Ward          string `json:"ward"`
	Bed           string `json:"bed"`
	VisitDate     string `json:"visit_date"`
	GeneralStatus string `json:"general_status"`
	Plan          string `json:"plan"`
	NoteID        int64  `json:"note_id"`
}

// TodaysRoundsWithPlan picks, per active patient, the highest-id note
// dated today, sorted by ward then bed.
func TodaysRoundsWithPlan(notes []*wardround.Note, patients []*patient.Patient, today string) []RoundPlan {
	active := map[int64]*patient.Patient{}
	for _, p := range patients {
		if p.Active {
			active[p.ID] = p
		}
	}

	latest := map[int64]*wardround.Note{}
	for _, n := range notes {
		if n.VisitDate != today {
			continue
		}
		if _, ok := active[n.PatientID]; !ok {
			continue
		}
		if cur, ok := latest[n.PatientID]; !ok || n.ID > cur.ID {
			latest[n.PatientID] = n
		}
	}

	out := make([]RoundPlan, 0, len(latest))
	for pid, n := range latest {
		p := active[pid]
		// A missing or malformed birth date shows as age 0.
		age, _ := dateutil.Age(p.DOB, today)
		out = append(out, RoundPlan{
			PatientID:     pid,
			MedicalID:     p.MedicalID,
			Name:          p.Name,
			Age:           age,
			Ward:          p.Ward,
			Bed:           p.Bed,
			VisitDate:     n.VisitDate,
			GeneralStatus: n.GeneralStatus,
			Plan:          n.Plan,
			NoteID:        n.ID,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ward != out[j].Ward {
			return out[i].Ward < out[j].Ward
		}
		if out[i].Bed != out[j].Bed {
			return out[i].Bed < out[j].Bed
		}
		return out[i].PatientID < out[j].PatientID
	})
	return out
}
