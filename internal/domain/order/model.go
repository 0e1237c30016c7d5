package order

import "errors"

// ErrNotFound marks lookups for an order id that has no row.
var ErrNotFound = errors.New("order not found")

// Order statuses. An order is done exactly when its result date is set;
// the transition to done is one-directional.
const (
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
	StatusDone      = "done"
)

// Order maps to the orders table: one diagnostic/imaging/lab request tied
// to a single patient for its entire lifetime.
type Order struct {
	ID            int64   `db:"id" json:"id"`
	PatientID     int64   `db:"patient_id" json:"patient_id"`
	OrderType     string  `db:"order_type" json:"order_type"`
	Description   string  `db:"description" json:"description"`
	DateOrdered   string  `db:"date_ordered" json:"date_ordered"`
	ScheduledDate *string `db:"scheduled_date" json:"scheduled_date,omitempty"`
	Status        string  `db:"status" json:"status"`
	Result        *string `db:"result" json:"result,omitempty"`
	ResultDate    *string `db:"result_date" json:"result_date,omitempty"`
}

// Done reports whether the order has been completed.
func (o *Order) Done() bool {
	return o.Status == StatusDone
}

// OverdueOn reports whether the order counts as overdue on the given day:
// not done, scheduled, and the scheduled date has arrived. ISO dates
// compare lexicographically in date order.
func (o *Order) OverdueOn(today string) bool {
	return !o.Done() && o.ScheduledDate != nil && *o.ScheduledDate != "" && *o.ScheduledDate <= today
}
