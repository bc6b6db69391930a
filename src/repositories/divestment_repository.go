package repositories

import (
	"context"
	"time"

	"ledger/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DivestmentRepository interface {
	GetByOwner(ctx context.Context, tx pgx.Tx, ownerID int64) ([]models.Divestment, error)
	ListByBatch(ctx context.Context, tx pgx.Tx, batchID int64) ([]models.Divestment, error)
	// BatchIDsByInvestment returns the distinct batches holding an allocation
	// against the given lot, for the cascading investment delete.
	BatchIDsByInvestment(ctx context.Context, tx pgx.Tx, investmentID int64) ([]int64, error)
	AllocatedByInvestment(ctx context.Context, tx pgx.Tx, investmentID int64) (int64, error)
	Create(ctx context.Context, tx pgx.Tx, d *models.Divestment) error
	DeleteByBatch(ctx context.Context, tx pgx.Tx, batchID int64) error
	Summarize(ctx context.Context, tx pgx.Tx, ownerID int64, since time.Time) (*models.DivestmentSummary, error)
	SummarizeByCompany(ctx context.Context, tx pgx.Tx, ownerID int64, since time.Time) ([]models.CompanyDivestmentSummary, error)
}

type divestmentRepo struct {
	db *pgxpool.Pool
}

func NewDivestmentRepository(db *pgxpool.Pool) DivestmentRepository {
	return &divestmentRepo{db: db}
}

func (r *divestmentRepo) q(tx pgx.Tx) queryer {
	if tx != nil {
		return tx
	}
	return r.db
}

const divestmentColumns = `id, batch_id, investment_id, owner_id, company, quantity,
	unit_price, date_invested, date_divested, cost_of_investment, revenue, net_return, created_at`

func (r *divestmentRepo) collect(rows pgx.Rows) ([]models.Divestment, error) {
	defer rows.Close()
	var divestments []models.Divestment
	for rows.Next() {
		var d models.Divestment
		if err := rows.Scan(&d.ID, &d.BatchID, &d.InvestmentID, &d.OwnerID, &d.Company,
			&d.Quantity, &d.UnitPrice, &d.DateInvested, &d.DateDivested,
			&d.CostOfInvestment, &d.Revenue, &d.NetReturn, &d.CreatedAt); err != nil {
			return nil, err
		}
		divestments = append(divestments, d)
	}
	return divestments, rows.Err()
}

func (r *divestmentRepo) GetByOwner(ctx context.Context, tx pgx.Tx, ownerID int64) ([]models.Divestment, error) {
	rows, err := r.q(tx).Query(ctx,
		`SELECT `+divestmentColumns+` FROM divestments WHERE owner_id = $1 ORDER BY id`,
		ownerID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *divestmentRepo) ListByBatch(ctx context.Context, tx pgx.Tx, batchID int64) ([]models.Divestment, error) {
	rows, err := r.q(tx).Query(ctx,
		`SELECT `+divestmentColumns+` FROM divestments WHERE batch_id = $1 ORDER BY id`,
		batchID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *divestmentRepo) BatchIDsByInvestment(ctx context.Context, tx pgx.Tx, investmentID int64) ([]int64, error) {
	rows, err := r.q(tx).Query(ctx,
		`SELECT DISTINCT batch_id FROM divestments WHERE investment_id = $1 ORDER BY batch_id`,
		investmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *divestmentRepo) AllocatedByInvestment(ctx context.Context, tx pgx.Tx, investmentID int64) (int64, error) {
	var allocated int64
	err := r.q(tx).QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM divestments WHERE investment_id = $1`,
		investmentID).Scan(&allocated)
	return allocated, err
}

func (r *divestmentRepo) Create(ctx context.Context, tx pgx.Tx, d *models.Divestment) error {
	return r.q(tx).QueryRow(ctx,
		`INSERT INTO divestments (batch_id, investment_id, owner_id, company, quantity, unit_price,
			date_invested, date_divested, cost_of_investment, revenue, net_return)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		d.BatchID, d.InvestmentID, d.OwnerID, d.Company, d.Quantity, d.UnitPrice,
		d.DateInvested, d.DateDivested, d.CostOfInvestment, d.Revenue, d.NetReturn,
	).Scan(&d.ID, &d.CreatedAt)
}

func (r *divestmentRepo) DeleteByBatch(ctx context.Context, tx pgx.Tx, batchID int64) error {
	_, err := r.q(tx).Exec(ctx, `DELETE FROM divestments WHERE batch_id = $1`, batchID)
	return err
}

func (r *divestmentRepo) Summarize(ctx context.Context, tx pgx.Tx, ownerID int64, since time.Time) (*models.DivestmentSummary, error) {
	var s models.DivestmentSummary
	err := r.q(tx).QueryRow(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(quantity * unit_price), 0),
			COUNT(DISTINCT company),
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(cost_of_investment), 0),
			COALESCE(SUM(revenue), 0),
			COALESCE(SUM(net_return), 0)
		FROM divestments
		WHERE owner_id = $1 AND date_invested >= $2`,
		ownerID, since,
	).Scan(&s.NumDivestments, &s.TotalDivested, &s.DistinctCompanies, &s.QuantityDivested,
		&s.RealizedCost, &s.RealizedRevenue, &s.NetReturn)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *divestmentRepo) SummarizeByCompany(ctx context.Context, tx pgx.Tx, ownerID int64, since time.Time) ([]models.CompanyDivestmentSummary, error) {
	rows, err := r.q(tx).Query(ctx,
		`SELECT company, COUNT(*),
			COALESCE(SUM(quantity * unit_price), 0),
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(cost_of_investment), 0),
			COALESCE(SUM(revenue), 0),
			COALESCE(SUM(net_return), 0)
		FROM divestments
		WHERE owner_id = $1 AND date_invested >= $2
		GROUP BY company
		ORDER BY company`,
		ownerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.CompanyDivestmentSummary
	for rows.Next() {
		var s models.CompanyDivestmentSummary
		if err := rows.Scan(&s.Company, &s.NumDivestments, &s.TotalDivested, &s.QuantityDivested,
			&s.RealizedCost, &s.RealizedRevenue, &s.NetReturn); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
