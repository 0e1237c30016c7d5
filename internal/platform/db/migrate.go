package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// baseStatements create the schema when it does not exist yet. All of them
// are idempotent, so Up can run on every start.
var baseStatements = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id BIGSERIAL PRIMARY KEY,
		medical_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		dob TEXT NOT NULL DEFAULT '',
		ward TEXT NOT NULL DEFAULT '',
		bed TEXT NOT NULL DEFAULT '',
		admission_date TEXT NOT NULL,
		discharge_date TEXT,
		severity INTEGER,
		surgery_needed BOOLEAN NOT NULL DEFAULT FALSE,
		planned_treatment_days INTEGER,
		meds TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		patient_id BIGINT NOT NULL,
		order_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date_ordered TEXT NOT NULL,
		scheduled_date TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		result TEXT,
		result_date TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS ward_rounds (
		id BIGSERIAL PRIMARY KEY,
		patient_id BIGINT NOT NULL,
		visit_date TEXT NOT NULL,
		general_status TEXT NOT NULL DEFAULT '',
		system_exam TEXT NOT NULL DEFAULT '',
		plan TEXT NOT NULL DEFAULT '',
		extra_tests TEXT NOT NULL DEFAULT '',
		extra_tests_note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS duty_files (
		id BIGSERIAL PRIMARY KEY,
		scope TEXT NOT NULL,
		original_name TEXT NOT NULL,
		mime_type TEXT NOT NULL DEFAULT '',
		storage_path TEXT NOT NULL,
		uploaded_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_patient ON orders (patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ward_rounds_patient ON ward_rounds (patient_id)`,
}

// additiveColumns are columns appended after the initial schema shipped.
// Migrations are additive-only: new nullable columns, never a destructive
// ALTER. A "column already exists" failure is treated as success.
var additiveColumns = []struct {
	Table, Column, DDL string
}{
	{"patients", "diagnosis", `ALTER TABLE patients ADD COLUMN diagnosis TEXT NOT NULL DEFAULT ''`},
	{"patients", "operated", `ALTER TABLE patients ADD COLUMN operated BOOLEAN NOT NULL DEFAULT FALSE`},
}

// Migrator applies the embedded schema against a PostgreSQL database.
type Migrator struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewMigrator(pool *pgxpool.Pool, log zerolog.Logger) *Migrator {
	return &Migrator{pool: pool, log: log}
}

// Up creates missing tables and appends missing columns. Safe to run on
// every start.
func (m *Migrator) Up(ctx context.Context) error {
	for _, stmt := range baseStatements {
		if _, err := m.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	for _, col := range additiveColumns {
		if _, err := m.pool.Exec(ctx, col.DDL); err != nil {
			// Duplicate-column errors mean the migration already ran.
			m.log.Debug().
				Str("table", col.Table).
				Str("column", col.Column).
				Err(err).
				Msg("additive column migration skipped")
		}
	}

	return nil
}
