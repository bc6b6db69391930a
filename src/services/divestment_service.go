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

type DivestmentServiceI interface {
	GetAllBatches(ctx context.Context, ownerID int64) ([]models.DivestmentBatch, error)
	GetBatchByID(ctx context.Context, ownerID, id int64) (*models.DivestmentBatch, error)
	GetAllocationsByBatch(ctx context.Context, ownerID, batchID int64) ([]models.Divestment, error)
	GetAllAllocations(ctx context.Context, ownerID int64) ([]models.Divestment, error)
	CreateBatch(ctx context.Context, ownerID int64, req *schemas.DivestmentBatchRequest) (*models.DivestmentBatch, error)
	UpdateBatch(ctx context.Context, ownerID, id int64, req *schemas.DivestmentBatchRequest) (*models.DivestmentBatch, error)
	DeleteBatch(ctx context.Context, ownerID, id int64) error
}

// DivestmentService owns the allocation engine: it turns a sale request into
// one batch plus per-lot allocations, and undoes or replaces them. Every
// mutating method runs as a single transaction with the user row and all
// touched lots locked, so two concurrent sales cannot both pass the
// availability check and double-spend a lot.
type DivestmentService struct {
	txm         repositories.TxManager
	users       repositories.UserRepository
	investments repositories.InvestmentRepository
	batches     repositories.DivestmentBatchRepository
	divestments repositories.DivestmentRepository
	cache       *AnalyticsCache
}

func NewDivestmentService(
	txm repositories.TxManager,
	users repositories.UserRepository,
	investments repositories.InvestmentRepository,
	batches repositories.DivestmentBatchRepository,
	divestments repositories.DivestmentRepository,
	cache *AnalyticsCache,
) *DivestmentService {
	return &DivestmentService{
		txm:         txm,
		users:       users,
		investments: investments,
		batches:     batches,
		divestments: divestments,
		cache:       cache,
	}
}

func validateBatchRequest(req *schemas.DivestmentBatchRequest) error {
	if req.Company == "" {
		return fmt.Errorf("%w: company is required", ErrInvalidRequest)
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidRequest)
	}
	if req.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price cannot be negative", ErrInvalidRequest)
	}
	if req.DateDivested.IsZero() {
		return fmt.Errorf("%w: date_divested is required", ErrInvalidDate)
	}
	return nil
}

func (s *DivestmentService) GetAllBatches(ctx context.Context, ownerID int64) ([]models.DivestmentBatch, error) {
	return s.batches.GetByOwner(ctx, nil, ownerID)
}

func (s *DivestmentService) GetBatchByID(ctx context.Context, ownerID, id int64) (*models.DivestmentBatch, error) {
	batch, err := s.batches.GetByID(ctx, nil, ownerID, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: divestment batch %d", ErrNotFound, id)
	}
	return batch, nil
}

func (s *DivestmentService) GetAllocationsByBatch(ctx context.Context, ownerID, batchID int64) ([]models.Divestment, error) {
	batch, err := s.batches.GetByID(ctx, nil, ownerID, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: divestment batch %d", ErrNotFound, batchID)
	}
	return s.divestments.ListByBatch(ctx, nil, batchID)
}

func (s *DivestmentService) GetAllAllocations(ctx context.Context, ownerID int64) ([]models.Divestment, error) {
	return s.divestments.GetByOwner(ctx, nil, ownerID)
}

// allocate selects eligible lots for the batch, plans the FIFO split and
// persists allocations, lot decrements and the user aggregate deltas. The
// batch row itself must already exist. Must run inside the caller's
// transaction.
func (s *DivestmentService) allocate(ctx context.Context, tx pgx.Tx, user *models.User, batch *models.DivestmentBatch) error {
	lots, err := s.investments.ListOpenLots(ctx, tx, batch.OwnerID, batch.Company, batch.DateDivested)
	if err != nil {
		return err
	}
	allocations, touched, err := planAllocations(lots, batch.Quantity, batch.UnitPrice, batch.DateDivested)
	if err != nil {
		return err
	}
	for i := range touched {
		if err := s.investments.Update(ctx, tx, &touched[i]); err != nil {
			return err
		}
	}
	for i := range allocations {
		allocations[i].BatchID = batch.ID
		if err := s.divestments.Create(ctx, tx, &allocations[i]); err != nil {
			return err
		}
	}
	user.NumberOfDivestments++
	user.TotalDivestment += batch.Revenue
	return nil
}

// reverseBatch restores every allocation's quantity to its lot (reactivating
// exhausted lots), deletes the allocation rows and backs the batch out of the
// user aggregates. The batch row itself is left to the caller. Shared with the
// investment delete cascade.
func reverseBatch(
	ctx context.Context,
	tx pgx.Tx,
	investments repositories.InvestmentRepository,
	divestments repositories.DivestmentRepository,
	user *models.User,
	batch *models.DivestmentBatch,
) error {
	allocations, err := divestments.ListByBatch(ctx, tx, batch.ID)
	if err != nil {
		return err
	}
	for _, a := range allocations {
		lot, err := investments.GetByIDForUpdate(ctx, tx, batch.OwnerID, a.InvestmentID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("%w: investment %d referenced by allocation %d", ErrNotFound, a.InvestmentID, a.ID)
		}
		lot.QuantityRemaining += a.Quantity
		lot.IsActive = true
		if err := investments.Update(ctx, tx, lot); err != nil {
			return err
		}
	}
	if err := divestments.DeleteByBatch(ctx, tx, batch.ID); err != nil {
		return err
	}
	user.NumberOfDivestments--
	user.TotalDivestment -= batch.Revenue
	return nil
}

func (s *DivestmentService) CreateBatch(ctx context.Context, ownerID int64, req *schemas.DivestmentBatchRequest) (*models.DivestmentBatch, error) {
	if err := validateBatchRequest(req); err != nil {
		return nil, err
	}

	batch := &models.DivestmentBatch{
		OwnerID:      ownerID,
		Company:      req.Company,
		UnitPrice:    req.UnitPrice,
		Quantity:     req.Quantity,
		Revenue:      float64(req.Quantity) * req.UnitPrice,
		DateDivested: utils.DateOnly(req.DateDivested.Time),
	}

	err := s.txm.WithTx(ctx, func(tx pgx.Tx) error {
		user, err := s.users.GetByIDForUpdate(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %d", ErrNotFound, ownerID)
		}
		if err := s.batches.Create(ctx, tx, batch); err != nil {
			return err
		}
		if err := s.allocate(ctx, tx, user, batch); err != nil {
			return err
		}
		return s.users.UpdateAggregates(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ownerID)
	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"owner_id": ownerID,
		"batch_id": batch.ID,
		"company":  batch.Company,
		"quantity": batch.Quantity,
	}).Info("divestment batch created")
	return batch, nil
}

// UpdateBatch replaces the batch's allocations wholesale: reverse everything,
// then allocate afresh with the new parameters, all inside one transaction. If
// the new parameters cannot be satisfied the transaction rolls back and the
// original allocations stay in place.
func (s *DivestmentService) UpdateBatch(ctx context.Context, ownerID, id int64, req *schemas.DivestmentBatchRequest) (*models.DivestmentBatch, error) {
	if err := validateBatchRequest(req); err != nil {
		return nil, err
	}

	var batch *models.DivestmentBatch
	err := s.txm.WithTx(ctx, func(tx pgx.Tx) error {
		user, err := s.users.GetByIDForUpdate(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %d", ErrNotFound, ownerID)
		}
		batch, err = s.batches.GetByIDForUpdate(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if batch == nil {
			return fmt.Errorf("%w: divestment batch %d", ErrNotFound, id)
		}

		if err := reverseBatch(ctx, tx, s.investments, s.divestments, user, batch); err != nil {
			return err
		}

		batch.Company = req.Company
		batch.UnitPrice = req.UnitPrice
		batch.Quantity = req.Quantity
		batch.Revenue = float64(req.Quantity) * req.UnitPrice
		batch.DateDivested = utils.DateOnly(req.DateDivested.Time)
		if err := s.batches.Update(ctx, tx, batch); err != nil {
			return err
		}

		if err := s.allocate(ctx, tx, user, batch); err != nil {
			return err
		}
		return s.users.UpdateAggregates(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ownerID)
	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"owner_id": ownerID,
		"batch_id": id,
	}).Info("divestment batch updated")
	return batch, nil
}

func (s *DivestmentService) DeleteBatch(ctx context.Context, ownerID, id int64) error {
	err := s.txm.WithTx(ctx, func(tx pgx.Tx) error {
		user, err := s.users.GetByIDForUpdate(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %d", ErrNotFound, ownerID)
		}
		batch, err := s.batches.GetByIDForUpdate(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if batch == nil {
			return fmt.Errorf("%w: divestment batch %d", ErrNotFound, id)
		}

		if err := reverseBatch(ctx, tx, s.investments, s.divestments, user, batch); err != nil {
			return err
		}
		if err := s.batches.Delete(ctx, tx, ownerID, id); err != nil {
			return err
		}
		return s.users.UpdateAggregates(ctx, tx, user)
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ownerID)
	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"owner_id": ownerID,
		"batch_id": id,
	}).Info("divestment batch deleted")
	return nil
}

func (s *DivestmentService) invalidateCache(ownerID int64) {
	if s.cache != nil {
		s.cache.Invalidate(ownerID)
	}
}
