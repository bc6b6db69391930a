package models

import "time"

// Divestment is the per-lot allocation of a DivestmentBatch: the portion of
// the requested quantity taken from one Investment, with the realized cost,
// revenue and return for that portion. DateInvested is copied from the lot at
// allocation time so analytics can filter realized returns by purchase date.
type Divestment struct {
	ID               int64     `db:"id"`
	BatchID          int64     `db:"batch_id"`
	InvestmentID     int64     `db:"investment_id"`
	OwnerID          int64     `db:"owner_id"`
	Company          string    `db:"company"`
	Quantity         int64     `db:"quantity"`
	UnitPrice        float64   `db:"unit_price"`
	DateInvested     time.Time `db:"date_invested"`
	DateDivested     time.Time `db:"date_divested"`
	CostOfInvestment float64   `db:"cost_of_investment"`
	Revenue          float64   `db:"revenue"`
	NetReturn        float64   `db:"net_return"`
	CreatedAt        time.Time `db:"created_at"`
}
