package dutyfile

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

const fileCols = `id, scope, original_name, mime_type, storage_path, uploaded_at`

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO duty_files (scope, original_name, mime_type, storage_path, uploaded_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		rec.Scope, rec.OriginalName, rec.MimeType, rec.StoragePath, rec.UploadedAt,
	).Scan(&rec.ID)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Record, error) {
	var rec Record
	err := r.conn(ctx).QueryRow(ctx, `SELECT `+fileCols+` FROM duty_files WHERE id = $1`, id).
		Scan(&rec.ID, &rec.Scope, &rec.OriginalName, &rec.MimeType, &rec.StoragePath, &rec.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repoPG) ListByScope(ctx context.Context, scope string) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+fileCols+` FROM duty_files WHERE scope = $1 ORDER BY id DESC`, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (r *repoPG) List(ctx context.Context) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+fileCols+` FROM duty_files ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]*Record, error) {
	var recs []*Record
	for rows.Next() {
		var rec Record
		err := rows.Scan(&rec.ID, &rec.Scope, &rec.OriginalName, &rec.MimeType, &rec.StoragePath, &rec.UploadedAt)
		if err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}
