package services

import (
	"fmt"
	"time"

	"ledger/src/models"
)

// planAllocations splits a requested sale across candidate lots, oldest first.
// It returns one allocation per lot touched plus the mutated copies of those
// lots, and touches nothing unless the whole request can be satisfied.
//
// Candidates must already be filtered and ordered by the lot selector
// (owner+company, active, date_invested <= dateDivested, oldest first); the
// date check here re-validates that contract.
func planAllocations(lots []models.Investment, quantity int64, unitPrice float64, dateDivested time.Time) ([]models.Divestment, []models.Investment, error) {
	if quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidRequest, quantity)
	}

	var available int64
	for _, lot := range lots {
		available += lot.QuantityRemaining
	}
	if available < quantity {
		return nil, nil, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientInventory, available, quantity)
	}
	for _, lot := range lots {
		if lot.DateInvested.After(dateDivested) {
			return nil, nil, fmt.Errorf("%w: lot %d invested on %s, after divestment date %s",
				ErrInvalidDate, lot.ID,
				lot.DateInvested.Format(time.DateOnly), dateDivested.Format(time.DateOnly))
		}
	}

	remaining := quantity
	allocations := make([]models.Divestment, 0, len(lots))
	touched := make([]models.Investment, 0, len(lots))
	for _, lot := range lots {
		if remaining == 0 {
			break
		}
		qty := min(lot.QuantityRemaining, remaining)
		cost := float64(qty) * lot.UnitPrice
		revenue := float64(qty) * unitPrice

		allocations = append(allocations, models.Divestment{
			InvestmentID:     lot.ID,
			OwnerID:          lot.OwnerID,
			Company:          lot.Company,
			Quantity:         qty,
			UnitPrice:        unitPrice,
			DateInvested:     lot.DateInvested,
			DateDivested:     dateDivested,
			CostOfInvestment: cost,
			Revenue:          revenue,
			NetReturn:        revenue - cost,
		})

		lot.QuantityRemaining -= qty
		lot.IsActive = lot.QuantityRemaining > 0
		touched = append(touched, lot)
		remaining -= qty
	}
	return allocations, touched, nil
}
