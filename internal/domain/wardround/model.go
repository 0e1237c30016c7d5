package wardround

import "strings"

// Note is one ward-round record. Notes are immutable once written; the
// latest note for a patient is the one with the highest id.
type Note struct {
	ID             int64  `db:"id" json:"id"`
	PatientID      int64  `db:"patient_id" json:"patient_id"`
	VisitDate      string `db:"visit_date" json:"visit_date"`
	GeneralStatus  string `db:"general_status" json:"general_status"`
	SystemExam     string `db:"system_exam" json:"system_exam"`
	Plan           string `db:"plan" json:"plan"`
	ExtraTests     string `db:"extra_tests" json:"extra_tests"`
	ExtraTestsNote string `db:"extra_tests_note" json:"extra_tests_note"`
	CreatedAt      string `db:"created_at" json:"created_at"`
}

// JoinTests renders the selected test labels the way the store keeps them.
func JoinTests(labels []string) string {
	return strings.Join(labels, ", ")
}
