package models

import "time"

// Investment is a single purchase lot. QuantityRemaining is only ever mutated
// by the allocation path; IsActive is derived from it and stored so open lots
// can be selected with an index scan.
type Investment struct {
	ID                int64     `db:"id"`
	OwnerID           int64     `db:"owner_id"`
	Title             string    `db:"title"`
	Company           string    `db:"company"`
	Description       string    `db:"description"`
	UnitPrice         float64   `db:"unit_price"`
	Quantity          int64     `db:"quantity"`
	QuantityRemaining int64     `db:"quantity_remaining"`
	IsActive          bool      `db:"is_active"`
	DateInvested      time.Time `db:"date_invested"`
	CreatedAt         time.Time `db:"created_at"`
}

// CostBasis is the original purchase value of the whole lot, regardless of how
// much of it has been divested since.
func (i *Investment) CostBasis() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
