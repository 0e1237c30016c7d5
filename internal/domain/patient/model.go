package patient

import "errors"

// ErrNotFound marks lookups for a patient id that has no row.
var ErrNotFound = errors.New("patient not found")

// Patient maps to the patients table. Dates are ISO YYYY-MM-DD strings; a
// nil DischargeDate means the patient is still on the ward, and Active is
// kept equal to DischargeDate == nil on every write.
type Patient struct {
	ID                   int64   `db:"id" json:"id"`
	MedicalID            string  `db:"medical_id" json:"medical_id"`
	Name                 string  `db:"name" json:"name"`
	DOB                  string  `db:"dob" json:"dob"`
	Ward                 string  `db:"ward" json:"ward"`
	Bed                  string  `db:"bed" json:"bed"`
	AdmissionDate        string  `db:"admission_date" json:"admission_date"`
	DischargeDate        *string `db:"discharge_date" json:"discharge_date,omitempty"`
	Severity             *int    `db:"severity" json:"severity,omitempty"`
	SurgeryNeeded        bool    `db:"surgery_needed" json:"surgery_needed"`
	PlannedTreatmentDays *int    `db:"planned_treatment_days" json:"planned_treatment_days,omitempty"`
	Meds                 string  `db:"meds" json:"meds"`
	Notes                string  `db:"notes" json:"notes"`
	Diagnosis            string  `db:"diagnosis" json:"diagnosis"`
	Operated             bool    `db:"operated" json:"operated"`
	Active               bool    `db:"active" json:"active"`
}

// Discharged reports whether the patient has left the ward.
func (p *Patient) Discharged() bool {
	return p.DischargeDate != nil && *p.DischargeDate != ""
}

// WaitingSurgery reports whether the patient still needs an operation.
func (p *Patient) WaitingSurgery() bool {
	return p.SurgeryNeeded && !p.Operated
}
