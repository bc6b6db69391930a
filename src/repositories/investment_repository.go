package repositories

import (
	"context"
	"errors"
	"time"

	"ledger/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvestmentRepository interface {
	GetByOwner(ctx context.Context, tx pgx.Tx, ownerID int64) ([]models.Investment, error)
	GetByID(ctx context.Context, tx pgx.Tx, ownerID, id int64) (*models.Investment, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, ownerID, id int64) (*models.Investment, error)
	// ListOpenLots returns the lots eligible for a divestment dated asOf:
	// owned by ownerID, same company, still holding quantity, bought on or
	// before asOf. Oldest purchase first, lot id breaking ties, rows locked.
	ListOpenLots(ctx context.Context, tx pgx.Tx, ownerID int64, company string, asOf time.Time) ([]models.Investment, error)
	Create(ctx context.Context, tx pgx.Tx, inv *models.Investment) error
	Update(ctx context.Context, tx pgx.Tx, inv *models.Investment) error
	Delete(ctx context.Context, tx pgx.Tx, ownerID, id int64) error
	Totals(ctx context.Context, tx pgx.Tx, ownerID int64) (count int64, totalCost float64, err error)
	Summarize(ctx context.Context, tx pgx.Tx, ownerID int64, since time.Time) (*models.InvestmentSummary, error)
	SummarizeByCompany(ctx context.Context, tx pgx.Tx, ownerID int64, since time.Time) ([]models.CompanyInvestmentSummary, error)
}

type investmentRepo struct {
	db *pgxpool.Pool
}

func NewInvestmentRepository(db *pgxpool.Pool) InvestmentRepository {
	return &investmentRepo{db: db}
}

func (r *investmentRepo) q(tx pgx.Tx) queryer {
	if tx != nil {
		return tx
	}
	return r.db
}

const investmentColumns = `id, owner_id, title, company, description, unit_price,
	quantity, quantity_remaining, is_active, date_invested, created_at`

func scanInvestment(row pgx.Row, inv *models.Investment) error {
	return row.Scan(&inv.ID, &inv.OwnerID, &inv.Title, &inv.Company, &inv.Description,
		&inv.UnitPrice, &inv.Quantity, &inv.QuantityRemaining, &inv.IsActive,
		&inv.DateInvested, &inv.CreatedAt)
}

func (r *investmentRepo) collect(rows pgx.Rows) ([]models.Investment, error) {
	defer rows.Close()
	var investments []models.Investment
	for rows.Next() {
		var inv models.Investment
		if err := scanInvestment(rows, &inv); err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

func (r *investmentRepo) GetByOwner(ctx context.Context, tx pgx.Tx, ownerID int64) ([]models.Investment, error) {
	rows, err := r.q(tx).Query(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE owner_id = $1 ORDER BY date_invested, id`,
		ownerID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *investmentRepo) get(ctx context.Context, tx pgx.Tx, ownerID, id int64, lock string) (*models.Investment, error) {
	var inv models.Investment
	err := scanInvestment(r.q(tx).QueryRow(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE id = $1 AND owner_id = $2`+lock,
		id, ownerID), &inv)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *investmentRepo) GetByID(ctx context.Context, tx pgx.Tx, ownerID, id int64) (*models.Investment, error) {
	return r.get(ctx, tx, ownerID, id, "")
}

func (r *investmentRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, ownerID, id int64) (*models.Investment, error) {
	return r.get(ctx, tx, ownerID, id, " FOR UPDATE")
}

func (r *investmentRepo) ListOpenLots(ctx context.Context, tx pgx.Tx, ownerID int64, company string, asOf time.Time) ([]models.Investment, error) {
	rows, err := r.q(tx).Query(ctx,
		`SELECT `+investmentColumns+` FROM investments
		WHERE owner_id = $1 AND company = $2 AND is_active AND date_invested <= $3
		ORDER BY date_invested, id
		FOR UPDATE`,
		ownerID, company, asOf)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *investmentRepo) Create(ctx context.Context, tx pgx.Tx, inv *models.Investment) error {
	return r.q(tx).QueryRow(ctx,
		`INSERT INTO investments (owner_id, title, company, description, unit_price, quantity, quantity_remaining, is_active, date_invested)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		inv.OwnerID, inv.Title, inv.Company, inv.Description, inv.UnitPrice,
		inv.Quantity, inv.QuantityRemaining, inv.IsActive, inv.DateInvested,
	).Scan(&inv.ID, &inv.CreatedAt)
}

func (r *investmentRepo) Update(ctx context.Context, tx pgx.Tx, inv *models.Investment) error {
	_, err := r.q(tx).Exec(ctx,
		`UPDATE investments SET
			title = $1, company = $2, description = $3, unit_price = $4,
			quantity = $5, quantity_remaining = $6, is_active = $7, date_invested = $8
		WHERE id = $9 AND owner_id = $10`,
		inv.Title, inv.Company, inv.Description, inv.UnitPrice,
		inv.Quantity, inv.QuantityRemaining, inv.IsActive, inv.DateInvested,
		inv.ID, inv.OwnerID)
	return err
}

func (r *investmentRepo) Delete(ctx context.Context, tx pgx.Tx, ownerID, id int64) error {
	_, err := r.q(tx).Exec(ctx,
		`DELETE FROM investments WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return err
}

func (r *investmentRepo) Totals(ctx context.Context, tx pgx.Tx, ownerID int64) (int64, float64, error) {
	var count int64
	var totalCost float64
	err := r.q(tx).QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(unit_price * quantity), 0)
		FROM investments WHERE owner_id = $1`,
		ownerID).Scan(&count, &totalCost)
	return count, totalCost, err
}

func (r *investmentRepo) Summarize(ctx context.Context, tx pgx.Tx, ownerID int64, since time.Time) (*models.InvestmentSummary, error) {
	var s models.InvestmentSummary
	err := r.q(tx).QueryRow(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(unit_price * quantity), 0),
			COUNT(DISTINCT company),
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(quantity_remaining), 0)
		FROM investments
		WHERE owner_id = $1 AND date_invested >= $2`,
		ownerID, since,
	).Scan(&s.NumInvestments, &s.TotalInvested, &s.DistinctCompanies,
		&s.QuantityInvested, &s.QuantityNonRealized)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *investmentRepo) SummarizeByCompany(ctx context.Context, tx pgx.Tx, ownerID int64, since time.Time) ([]models.CompanyInvestmentSummary, error) {
	rows, err := r.q(tx).Query(ctx,
		`SELECT company, COUNT(*),
			COALESCE(SUM(unit_price * quantity), 0),
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(quantity_remaining), 0)
		FROM investments
		WHERE owner_id = $1 AND date_invested >= $2
		GROUP BY company
		ORDER BY company`,
		ownerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.CompanyInvestmentSummary
	for rows.Next() {
		var s models.CompanyInvestmentSummary
		if err := rows.Scan(&s.Company, &s.NumInvestments, &s.TotalInvested,
			&s.QuantityInvested, &s.QuantityNonRealized); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
