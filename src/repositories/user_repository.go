package repositories

import (
	"context"
	"errors"

	"ledger/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	GetByID(ctx context.Context, tx pgx.Tx, id int64) (*models.User, error)
	// GetByIDForUpdate locks the aggregate row for the duration of the
	// transaction so concurrent allocations serialize per user.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.User, error)
	Create(ctx context.Context, tx pgx.Tx, u *models.User) error
	UpdateAggregates(ctx context.Context, tx pgx.Tx, u *models.User) error
	ListIDs(ctx context.Context, tx pgx.Tx) ([]int64, error)
}

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) q(tx pgx.Tx) queryer {
	if tx != nil {
		return tx
	}
	return r.db
}

const userColumns = `id, username, email, first_name, last_name, active,
	number_of_investments, total_investment, number_of_divestments, total_divestment, created_at`

func (r *userRepo) get(ctx context.Context, tx pgx.Tx, id int64, lock string) (*models.User, error) {
	var u models.User
	err := r.q(tx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`+lock, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Active,
		&u.NumberOfInvestments, &u.TotalInvestment, &u.NumberOfDivestments, &u.TotalDivestment, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, tx pgx.Tx, id int64) (*models.User, error) {
	return r.get(ctx, tx, id, "")
}

func (r *userRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.User, error) {
	return r.get(ctx, tx, id, " FOR UPDATE")
}

func (r *userRepo) Create(ctx context.Context, tx pgx.Tx, u *models.User) error {
	return r.q(tx).QueryRow(ctx,
		`INSERT INTO users (username, email, first_name, last_name, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		u.Username, u.Email, u.FirstName, u.LastName, u.Active,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *userRepo) UpdateAggregates(ctx context.Context, tx pgx.Tx, u *models.User) error {
	_, err := r.q(tx).Exec(ctx,
		`UPDATE users SET
			number_of_investments = $1,
			total_investment = $2,
			number_of_divestments = $3,
			total_divestment = $4
		WHERE id = $5`,
		u.NumberOfInvestments, u.TotalInvestment, u.NumberOfDivestments, u.TotalDivestment, u.ID)
	return err
}

func (r *userRepo) ListIDs(ctx context.Context, tx pgx.Tx) ([]int64, error) {
	rows, err := r.q(tx).Query(ctx, `SELECT id FROM users WHERE active ORDER BY id`)
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
