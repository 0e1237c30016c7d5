package patient

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dhyhn5012/ward-tracker/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientCols = `id, medical_id, name, dob, ward, bed, admission_date, discharge_date,
	severity, surgery_needed, planned_treatment_days, meds, notes, diagnosis, operated, active`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (medical_id, name, dob, ward, bed, admission_date, discharge_date,
			severity, surgery_needed, planned_treatment_days, meds, notes, diagnosis, operated, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id`,
		p.MedicalID, p.Name, p.DOB, p.Ward, p.Bed, p.AdmissionDate, p.DischargeDate,
		p.Severity, p.SurgeryNeeded, p.PlannedTreatmentDays, p.Meds, p.Notes, p.Diagnosis, p.Operated, p.Active,
	).Scan(&p.ID)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET medical_id = $2, name = $3, dob = $4, ward = $5, bed = $6,
			admission_date = $7, discharge_date = $8, severity = $9, surgery_needed = $10,
			planned_treatment_days = $11, meds = $12, notes = $13, diagnosis = $14,
			operated = $15, active = $16
		WHERE id = $1`,
		p.ID, p.MedicalID, p.Name, p.DOB, p.Ward, p.Bed, p.AdmissionDate, p.DischargeDate,
		p.Severity, p.SurgeryNeeded, p.PlannedTreatmentDays, p.Meds, p.Notes, p.Diagnosis,
		p.Operated, p.Active)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListActive(ctx context.Context, ward string, limit, offset int) ([]*Patient, int, error) {
	q := r.conn(ctx)

	where := `WHERE active`
	args := []interface{}{}
	if ward != "" {
		where += ` AND ward = $1`
		args = append(args, ward)
	}

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM patients `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	listArgs := append(args, limit, offset)
	rows, err := q.Query(ctx,
		`SELECT `+patientCols+` FROM patients `+where+
			` ORDER BY ward, bed, id LIMIT $`+strconv.Itoa(n+1)+` OFFSET $`+strconv.Itoa(n+2),
		listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	patients, err := collectPatients(rows)
	return patients, total, err
}

func (r *repoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPatients(rows)
}

func (r *repoPG) ActiveBetween(ctx context.Context, start, end string) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patientCols+` FROM patients
		WHERE admission_date <= $2
		  AND (discharge_date IS NULL OR discharge_date >= $1)
		ORDER BY ward, bed, id`,
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPatients(rows)
}

func (r *repoPG) AdmittedBetween(ctx context.Context, start, end string) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients WHERE admission_date >= $1 AND admission_date <= $2 ORDER BY admission_date, id`,
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPatients(rows)
}

func (r *repoPG) CountDischargedBetween(ctx context.Context, start, end string) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patients WHERE discharge_date IS NOT NULL AND discharge_date >= $1 AND discharge_date <= $2`,
		start, end).Scan(&total)
	return total, err
}

func (r *repoPG) DistinctWards(ctx context.Context) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT DISTINCT ward FROM patients WHERE active AND ward <> '' ORDER BY ward`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wards []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		wards = append(wards, w)
	}
	return wards, rows.Err()
}

func (r *repoPG) SetOperated(ctx context.Context, id int64, operated bool) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE patients SET operated = $2 WHERE id = $1`, id, operated)
	return err
}

func (r *repoPG) SetDischarge(ctx context.Context, id int64, dischargeDate *string, active bool) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET discharge_date = $2, active = $3 WHERE id = $1`,
		id, dischargeDate, active)
	return err
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.MedicalID, &p.Name, &p.DOB, &p.Ward, &p.Bed, &p.AdmissionDate,
		&p.DischargeDate, &p.Severity, &p.SurgeryNeeded, &p.PlannedTreatmentDays,
		&p.Meds, &p.Notes, &p.Diagnosis, &p.Operated, &p.Active)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPatients(rows pgx.Rows) ([]*Patient, error) {
	var patients []*Patient
	for rows.Next() {
		var p Patient
		err := rows.Scan(&p.ID, &p.MedicalID, &p.Name, &p.DOB, &p.Ward, &p.Bed, &p.AdmissionDate,
			&p.DischargeDate, &p.Severity, &p.SurgeryNeeded, &p.PlannedTreatmentDays,
			&p.Meds, &p.Notes, &p.Diagnosis, &p.Operated, &p.Active)
		if err != nil {
			return nil, err
		}
		patients = append(patients, &p)
	}
	return patients, rows.Err()
}
