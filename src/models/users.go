package models

import "time"

// User carries the denormalized portfolio aggregates. The counters are
// maintained incrementally by the services inside the same transaction as the
// row mutations they describe, never recomputed on the write path.
type User struct {
	ID                  int64     `db:"id"`
	Username            string    `db:"username"`
	Email               string    `db:"email"`
	FirstName           string    `db:"first_name"`
	LastName            string    `db:"last_name"`
	Active              bool      `db:"active"`
	NumberOfInvestments int64     `db:"number_of_investments"`
	TotalInvestment     float64   `db:"total_investment"`
	NumberOfDivestments int64     `db:"number_of_divestments"`
	TotalDivestment     float64   `db:"total_divestment"`
	CreatedAt           time.Time `db:"created_at"`
}
