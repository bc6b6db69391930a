package repositories

import (
	"context"
	"errors"

	"ledger/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DivestmentBatchRepository interface {
	GetByOwner(ctx context.Context, tx pgx.Tx, ownerID int64) ([]models.DivestmentBatch, error)
	GetByID(ctx context.Context, tx pgx.Tx, ownerID, id int64) (*models.DivestmentBatch, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, ownerID, id int64) (*models.DivestmentBatch, error)
	Create(ctx context.Context, tx pgx.Tx, b *models.DivestmentBatch) error
	Update(ctx context.Context, tx pgx.Tx, b *models.DivestmentBatch) error
	Delete(ctx context.Context, tx pgx.Tx, ownerID, id int64) error
	Totals(ctx context.Context, tx pgx.Tx, ownerID int64) (count int64, revenue float64, err error)
}

type divestmentBatchRepo struct {
	db *pgxpool.Pool
}

func NewDivestmentBatchRepository(db *pgxpool.Pool) DivestmentBatchRepository {
	return &divestmentBatchRepo{db: db}
}

func (r *divestmentBatchRepo) q(tx pgx.Tx) queryer {
	if tx != nil {
		return tx
	}
	return r.db
}

const batchColumns = `id, owner_id, company, unit_price, quantity, revenue, date_divested, created_at`

func scanBatch(row pgx.Row, b *models.DivestmentBatch) error {
	return row.Scan(&b.ID, &b.OwnerID, &b.Company, &b.UnitPrice, &b.Quantity,
		&b.Revenue, &b.DateDivested, &b.CreatedAt)
}

func (r *divestmentBatchRepo) GetByOwner(ctx context.Context, tx pgx.Tx, ownerID int64) ([]models.DivestmentBatch, error) {
	rows, err := r.q(tx).Query(ctx,
		`SELECT `+batchColumns+` FROM divestment_batches WHERE owner_id = $1 ORDER BY date_divested, id`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []models.DivestmentBatch
	for rows.Next() {
		var b models.DivestmentBatch
		if err := scanBatch(rows, &b); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (r *divestmentBatchRepo) get(ctx context.Context, tx pgx.Tx, ownerID, id int64, lock string) (*models.DivestmentBatch, error) {
	var b models.DivestmentBatch
	err := scanBatch(r.q(tx).QueryRow(ctx,
		`SELECT `+batchColumns+` FROM divestment_batches WHERE id = $1 AND owner_id = $2`+lock,
		id, ownerID), &b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *divestmentBatchRepo) GetByID(ctx context.Context, tx pgx.Tx, ownerID, id int64) (*models.DivestmentBatch, error) {
	return r.get(ctx, tx, ownerID, id, "")
}

func (r *divestmentBatchRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, ownerID, id int64) (*models.DivestmentBatch, error) {
	return r.get(ctx, tx, ownerID, id, " FOR UPDATE")
}

func (r *divestmentBatchRepo) Create(ctx context.Context, tx pgx.Tx, b *models.DivestmentBatch) error {
	return r.q(tx).QueryRow(ctx,
		`INSERT INTO divestment_batches (owner_id, company, unit_price, quantity, revenue, date_divested)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		b.OwnerID, b.Company, b.UnitPrice, b.Quantity, b.Revenue, b.DateDivested,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *divestmentBatchRepo) Update(ctx context.Context, tx pgx.Tx, b *models.DivestmentBatch) error {
	_, err := r.q(tx).Exec(ctx,
		`UPDATE divestment_batches SET
			company = $1, unit_price = $2, quantity = $3, revenue = $4, date_divested = $5
		WHERE id = $6 AND owner_id = $7`,
		b.Company, b.UnitPrice, b.Quantity, b.Revenue, b.DateDivested, b.ID, b.OwnerID)
	return err
}

func (r *divestmentBatchRepo) Delete(ctx context.Context, tx pgx.Tx, ownerID, id int64) error {
	_, err := r.q(tx).Exec(ctx,
		`DELETE FROM divestment_batches WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return err
}

func (r *divestmentBatchRepo) Totals(ctx context.Context, tx pgx.Tx, ownerID int64) (int64, float64, error) {
	var count int64
	var revenue float64
	err := r.q(tx).QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(revenue), 0) FROM divestment_batches WHERE owner_id = $1`,
		ownerID).Scan(&count, &revenue)
	return count, revenue, err
}
