package wardround

import (
	"context"

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

const noteCols = `id, patient_id, visit_date, general_status, system_exam, plan, extra_tests, extra_tests_note, created_at`

func (r *repoPG) Create(ctx context.Context, n *Note) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO ward_rounds (patient_id, visit_date, general_status, system_exam, plan, extra_tests, extra_tests_note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id`,
		n.PatientID, n.VisitDate, n.GeneralStatus, n.SystemExam, n.Plan, n.ExtraTests, n.ExtraTestsNote, n.CreatedAt,
	).Scan(&n.ID)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Note, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+noteCols+` FROM ward_rounds WHERE patient_id = $1 ORDER BY id DESC`,
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (r *repoPG) ListByPatientAndDate(ctx context.Context, patientID int64, visitDate string) ([]*Note, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+noteCols+` FROM ward_rounds WHERE patient_id = $1 AND visit_date = $2 ORDER BY id DESC`,
		patientID, visitDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (r *repoPG) DistinctVisitDates(ctx context.Context, patientID int64) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT DISTINCT visit_date FROM ward_rounds WHERE patient_id = $1 ORDER BY visit_date DESC`,
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *repoPG) ListByVisitDate(ctx context.Context, visitDate string) ([]*Note, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+noteCols+` FROM ward_rounds WHERE visit_date = $1 ORDER BY id`,
		visitDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (r *repoPG) List(ctx context.Context) ([]*Note, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+noteCols+` FROM ward_rounds ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM ward_rounds WHERE patient_id = $1`, patientID)
	return err
}

func collectNotes(rows pgx.Rows) ([]*Note, error) {
	var notes []*Note
	for rows.Next() {
		var n Note
		err := rows.Scan(&n.ID, &n.PatientID, &n.VisitDate, &n.GeneralStatus, &n.SystemExam,
			&n.Plan, &n.ExtraTests, &n.ExtraTestsNote, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
