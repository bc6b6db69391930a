package services

import (
	"context"
	"fmt"

	"ledger/src/models"
	"ledger/src/repositories"
	"ledger/src/schemas"
	"ledger/src/utils"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

type InvestmentServiceI interface {
	GetAllInvestments(ctx context.Context, ownerID int64) ([]models.Investment, error)
	GetInvestmentByID(ctx context.Context, ownerID, id int64) (*models.Investment, error)
	CreateInvestment(ctx context.Context, ownerID int64, req *schemas.InvestmentRequest) (*models.Investment, error)
	UpdateInvestment(ctx context.Context, ownerID, id int64, req *schemas.InvestmentRequest) (*models.Investment, error)
	DeleteInvestment(ctx context.Context, ownerID, id int64) error
}

// InvestmentService manages purchase lots and keeps the per-user investment
// aggregates in step with every mutation. Field edits are only allowed while
// no allocation has consumed the lot; deletes cascade through every batch that
// touched the lot.
type InvestmentService struct {
	txm         repositories.TxManager
	users       repositories.UserRepository
	investments repositories.InvestmentRepository
	batches     repositories.DivestmentBatchRepository
	divestments repositories.DivestmentRepository
	cache       *AnalyticsCache
}

func NewInvestmentService(
	txm repositories.TxManager,
	users repositories.UserRepository,
	investments repositories.InvestmentRepository,
	batches repositories.DivestmentBatchRepository,
	divestments repositories.DivestmentRepository,
	cache *AnalyticsCache,
) *InvestmentService {
	return &InvestmentService{
		txm:         txm,
		users:       users,
		investments: investments,
		batches:     batches,
		divestments: divestments,
		cache:       cache,
	}
}

func validateInvestmentRequest(req *schemas.InvestmentRequest) error {
	if req.Company == "" {
		return fmt.Errorf("%w: company is required", ErrInvalidRequest)
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidRequest)
	}
	if req.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price cannot be negative", ErrInvalidRequest)
	}
	if req.DateInvested.IsZero() {
		return fmt.Errorf("%w: date_invested is required", ErrInvalidDate)
	}
	return nil
}

func (s *InvestmentService) GetAllInvestments(ctx context.Context, ownerID int64) ([]models.Investment, error) {
	return s.investments.GetByOwner(ctx, nil, ownerID)
}

func (s *InvestmentService) GetInvestmentByID(ctx context.Context, ownerID, id int64) (*models.Investment, error) {
	inv, err := s.investments.GetByID(ctx, nil, ownerID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: investment %d", ErrNotFound, id)
	}
	return inv, nil
}

func (s *InvestmentService) CreateInvestment(ctx context.Context, ownerID int64, req *schemas.InvestmentRequest) (*models.Investment, error) {
	if err := validateInvestmentRequest(req); err != nil {
		return nil, err
	}

	inv := &models.Investment{
		OwnerID:           ownerID,
		Title:             req.Title,
		Company:           req.Company,
		Description:       req.Description,
		UnitPrice:         req.UnitPrice,
		Quantity:          req.Quantity,
		QuantityRemaining: req.Quantity,
		IsActive:          true,
		DateInvested:      utils.DateOnly(req.DateInvested.Time),
	}

	err := s.txm.WithTx(ctx, func(tx pgx.Tx) error {
		user, err := s.users.GetByIDForUpdate(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %d", ErrNotFound, ownerID)
		}
		if err := s.investments.Create(ctx, tx, inv); err != nil {
			return err
		}
		user.NumberOfInvestments++
		user.TotalInvestment += inv.CostBasis()
		return s.users.UpdateAggregates(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ownerID)
	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"owner_id":      ownerID,
		"investment_id": inv.ID,
		"company":       inv.Company,
		"quantity":      inv.Quantity,
	}).Info("investment created")
	return inv, nil
}

// UpdateInvestment edits a lot's fields. Rejected with a conflict once any
// allocation exists, so realized cost figures on past divestments can never be
// silently rewritten.
func (s *InvestmentService) UpdateInvestment(ctx context.Context, ownerID, id int64, req *schemas.InvestmentRequest) (*models.Investment, error) {
	if err := validateInvestmentRequest(req); err != nil {
		return nil, err
	}

	var inv *models.Investment
	err := s.txm.WithTx(ctx, func(tx pgx.Tx) error {
		user, err := s.users.GetByIDForUpdate(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %d", ErrNotFound, ownerID)
		}
		inv, err = s.investments.GetByIDForUpdate(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return fmt.Errorf("%w: investment %d", ErrNotFound, id)
		}
		if inv.QuantityRemaining != inv.Quantity {
			return fmt.Errorf("%w: investment %d already has divestments", ErrConflict, id)
		}

		oldCost := inv.CostBasis()
		inv.Title = req.Title
		inv.Company = req.Company
		inv.Description = req.Description
		inv.UnitPrice = req.UnitPrice
		inv.Quantity = req.Quantity
		inv.QuantityRemaining = req.Quantity
		inv.IsActive = true
		inv.DateInvested = utils.DateOnly(req.DateInvested.Time)
		if err := s.investments.Update(ctx, tx, inv); err != nil {
			return err
		}

		if diff := inv.CostBasis() - oldCost; diff != 0 {
			user.TotalInvestment += diff
			return s.users.UpdateAggregates(ctx, tx, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ownerID)
	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"owner_id":      ownerID,
		"investment_id": id,
	}).Info("investment updated")
	return inv, nil
}

// DeleteInvestment removes a lot together with everything that depends on it:
// every batch holding an allocation against the lot is fully reversed and
// deleted first (its allocations to other lots are restored too), then the lot
// itself goes, all in one transaction.
func (s *InvestmentService) DeleteInvestment(ctx context.Context, ownerID, id int64) error {
	err := s.txm.WithTx(ctx, func(tx pgx.Tx) error {
		user, err := s.users.GetByIDForUpdate(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %d", ErrNotFound, ownerID)
		}
		inv, err := s.investments.GetByIDForUpdate(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return fmt.Errorf("%w: investment %d", ErrNotFound, id)
		}

		batchIDs, err := s.divestments.BatchIDsByInvestment(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, batchID := range batchIDs {
			batch, err := s.batches.GetByIDForUpdate(ctx, tx, ownerID, batchID)
			if err != nil {
				return err
			}
			if batch == nil {
				return fmt.Errorf("%w: divestment batch %d referenced by investment %d", ErrNotFound, batchID, id)
			}
			if err := reverseBatch(ctx, tx, s.investments, s.divestments, user, batch); err != nil {
				return err
			}
			if err := s.batches.Delete(ctx, tx, ownerID, batchID); err != nil {
				return err
			}
		}

		user.NumberOfInvestments--
		user.TotalInvestment -= inv.CostBasis()
		if err := s.investments.Delete(ctx, tx, ownerID, id); err != nil {
			return err
		}
		return s.users.UpdateAggregates(ctx, tx, user)
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ownerID)
	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"owner_id":      ownerID,
		"investment_id": id,
	}).Info("investment deleted")
	return nil
}

func (s *InvestmentService) invalidateCache(ownerID int64) {
	if s.cache != nil {
		s.cache.Invalidate(ownerID)
	}
}
