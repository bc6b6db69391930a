package models

import "time"

// DivestmentBatch is one user-initiated sale request. Its quantity is spread
// over one or more lots by the allocation engine; the batch and its Divestment
// rows are always created, replaced and deleted together.
type DivestmentBatch struct {
	ID           int64     `db:"id"`
	OwnerID      int64     `db:"owner_id"`
	Company      string    `db:"company"`
	UnitPrice    float64   `db:"unit_price"`
	Quantity     int64     `db:"quantity"`
	Revenue      float64   `db:"revenue"`
	DateDivested time.Time `db:"date_divested"`
	CreatedAt    time.Time `db:"created_at"`
}
