package services

import (
	"context"
	"fmt"

	"ledger/src/models"
	"ledger/src/repositories"
	"ledger/src/schemas"
	"ledger/src/utils"

	"github.com/jackc/pgx/v5"
)

type UserServiceI interface {
	CreateUser(ctx context.Context, req *schemas.UserRequest) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// UserService only creates and reads user rows; the aggregate columns on them
// are owned by the investment and divestment services.
type UserService struct {
	txm   repositories.TxManager
	users repositories.UserRepository
}

func NewUserService(txm repositories.TxManager, users repositories.UserRepository) *UserService {
	return &UserService{txm: txm, users: users}
}

func (s *UserService) CreateUser(ctx context.Context, req *schemas.UserRequest) (*models.User, error) {
	if req.Username == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrInvalidRequest)
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Active:    true,
	}
	err := s.txm.WithTx(ctx, func(tx pgx.Tx) error {
		return s.users.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	utils.LoggerFromContext(ctx).WithField("user_id", user.ID).Info("user created")
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return user, nil
}
