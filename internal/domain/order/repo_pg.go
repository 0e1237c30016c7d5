package order

import (
	"context"
	"errors"

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

const orderCols = `id, patient_id, order_type, description, date_ordered, scheduled_date, status, result, result_date`

func (r *repoPG) Create(ctx context.Context, o *Order) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO orders (patient_id, order_type, description, date_ordered, scheduled_date, status, result, result_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id`,
		o.PatientID, o.OrderType, o.Description, o.DateOrdered, o.ScheduledDate, o.Status, o.Result, o.ResultDate,
	).Scan(&o.ID)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (r *repoPG) List(ctx context.Context) ([]*Order, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+orderCols+` FROM orders ORDER BY scheduled_date NULLS LAST, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Order, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+orderCols+` FROM orders WHERE patient_id = $1 ORDER BY scheduled_date DESC NULLS LAST, id DESC`,
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *repoPG) ListScheduledBetween(ctx context.Context, start, end string) ([]*Order, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+orderCols+` FROM orders WHERE scheduled_date >= $1 AND scheduled_date <= $2 ORDER BY scheduled_date, id`,
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *repoPG) CountScheduledBetween(ctx context.Context, start, end string) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE scheduled_date >= $1 AND scheduled_date <= $2`,
		start, end).Scan(&total)
	return total, err
}

func (r *repoPG) MarkDone(ctx context.Context, id int64, result, resultDate string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE orders SET status = $2, result = $3, result_date = $4 WHERE id = $1`,
		id, StatusDone, result, resultDate)
	return err
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM orders WHERE patient_id = $1`, patientID)
	return err
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.PatientID, &o.OrderType, &o.Description, &o.DateOrdered,
		&o.ScheduledDate, &o.Status, &o.Result, &o.ResultDate)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		var o Order
		err := rows.Scan(&o.ID, &o.PatientID, &o.OrderType, &o.Description, &o.DateOrdered,
			&o.ScheduledDate, &o.Status, &o.Result, &o.ResultDate)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}
