package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"ledger/src/repositories"
	"ledger/src/utils"

	"github.com/jackc/pgx/v5"
)

// Float aggregates are maintained by adding and subtracting the same terms, so
// divergence beyond accumulated rounding noise means a mutation path missed a
// delta.
const aggregateTolerance = 1e-6

type IntegrityServiceI interface {
	CheckUser(ctx context.Context, ownerID int64) error
	CheckAll(ctx context.Context) error
}

// IntegrityService recomputes the denormalized user aggregates from the live
// rows and compares them with the incrementally maintained values. Violations
// are diagnostics for the operator, not caller errors: they indicate a bug in
// a mutation path, never bad input.
type IntegrityService struct {
	txm         repositories.TxManager
	users       repositories.UserRepository
	investments repositories.InvestmentRepository
	batches     repositories.DivestmentBatchRepository
	divestments repositories.DivestmentRepository
}

func NewIntegrityService(
	txm repositories.TxManager,
	users repositories.UserRepository,
	investments repositories.InvestmentRepository,
	batches repositories.DivestmentBatchRepository,
	divestments repositories.DivestmentRepository,
) *IntegrityService {
	return &IntegrityService{
		txm:         txm,
		users:       users,
		investments: investments,
		batches:     batches,
		divestments: divestments,
	}
}

func (s *IntegrityService) CheckUser(ctx context.Context, ownerID int64) error {
	var violations []error
	err := s.txm.WithTx(ctx, func(tx pgx.Tx) error {
		user, err := s.users.GetByID(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %d", ErrNotFound, ownerID)
		}

		invCount, invTotal, err := s.investments.Totals(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if user.NumberOfInvestments != invCount {
			violations = append(violations, fmt.Errorf("%w: user %d number_of_investments %d, recomputed %d",
				ErrAggregateIntegrity, ownerID, user.NumberOfInvestments, invCount))
		}
		if math.Abs(user.TotalInvestment-invTotal) > aggregateTolerance {
			violations = append(violations, fmt.Errorf("%w: user %d total_investment %f, recomputed %f",
				ErrAggregateIntegrity, ownerID, user.TotalInvestment, invTotal))
		}

		batchCount, batchRevenue, err := s.batches.Totals(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if user.NumberOfDivestments != batchCount {
			violations = append(violations, fmt.Errorf("%w: user %d number_of_divestments %d, recomputed %d",
				ErrAggregateIntegrity, ownerID, user.NumberOfDivestments, batchCount))
		}
		if math.Abs(user.TotalDivestment-batchRevenue) > aggregateTolerance {
			violations = append(violations, fmt.Errorf("%w: user %d total_divestment %f, recomputed %f",
				ErrAggregateIntegrity, ownerID, user.TotalDivestment, batchRevenue))
		}

		lots, err := s.investments.GetByOwner(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		for _, lot := range lots {
			if lot.QuantityRemaining < 0 || lot.QuantityRemaining > lot.Quantity {
				violations = append(violations, fmt.Errorf("%w: investment %d quantity_remaining %d outside [0, %d]",
					ErrAggregateIntegrity, lot.ID, lot.QuantityRemaining, lot.Quantity))
				continue
			}
			allocated, err := s.divestments.AllocatedByInvestment(ctx, tx, lot.ID)
			if err != nil {
				return err
			}
			if lot.Quantity-lot.QuantityRemaining != allocated {
				violations = append(violations, fmt.Errorf("%w: investment %d consumed %d but allocations sum to %d",
					ErrAggregateIntegrity, lot.ID, lot.Quantity-lot.QuantityRemaining, allocated))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return errors.Join(violations...)
}

// CheckAll sweeps every active user, logging per-user violations and returning
// the combined result.
func (s *IntegrityService) CheckAll(ctx context.Context) error {
	ids, err := s.users.ListIDs(ctx, nil)
	if err != nil {
		return err
	}

	logger := utils.LoggerFromContext(ctx)
	var failures []error
	for _, id := range ids {
		if err := s.CheckUser(ctx, id); err != nil {
			logger.WithField("user_id", id).WithError(err).Error("aggregate integrity check failed")
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}
