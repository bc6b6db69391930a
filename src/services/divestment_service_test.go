package services_test

import (
	"context"
	"testing"

	"ledger/src/schemas"
	"ledger/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivestmentService_CreateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("AllocatesOldestLotsFirst", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)
		lotA := env.createLot(t, user.ID, "ACME", 5.0, 10, date(2024, 1, 10))
		lotB := env.createLot(t, user.ID, "ACME", 6.0, 10, date(2024, 2, 10))

		batch, err := env.divestments.CreateBatch(ctx, user.ID, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    8.0,
			Quantity:     15,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.NoError(t, err)
		assert.Equal(t, 120.0, batch.Revenue)

		allocations, err := env.divestments.GetAllocationsByBatch(ctx, user.ID, batch.ID)
		require.NoError(t, err)
		require.Len(t, allocations, 2)
		assert.Equal(t, lotA.ID, allocations[0].InvestmentID)
		assert.Equal(t, int64(10), allocations[0].Quantity)
		assert.Equal(t, 30.0, allocations[0].NetReturn)
		assert.Equal(t, lotB.ID, allocations[1].InvestmentID)
		assert.Equal(t, int64(5), allocations[1].Quantity)
		assert.Equal(t, 10.0, allocations[1].NetReturn)

		drained := env.getLot(t, user.ID, lotA.ID)
		assert.Equal(t, int64(0), drained.QuantityRemaining)
		assert.False(t, drained.IsActive)
		partial := env.getLot(t, user.ID, lotB.ID)
		assert.Equal(t, int64(5), partial.QuantityRemaining)
		assert.True(t, partial.IsActive)

		stored := env.getUser(t, user.ID)
		assert.Equal(t, int64(1), stored.NumberOfDivestments)
		assert.Equal(t, 120.0, stored.TotalDivestment)
	})

	t.Run("InsufficientInventoryLeavesLotsUntouched", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)
		lotA := env.createLot(t, user.ID, "ACME", 5.0, 10, date(2024, 1, 10))
		lotB := env.createLot(t, user.ID, "ACME", 6.0, 10, date(2024, 2, 10))

		_, err := env.divestments.CreateBatch(ctx, user.ID, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    8.0,
			Quantity:     25,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.ErrorIs(t, err, services.ErrInsufficientInventory)

		assert.Equal(t, int64(10), env.getLot(t, user.ID, lotA.ID).QuantityRemaining)
		assert.Equal(t, int64(10), env.getLot(t, user.ID, lotB.ID).QuantityRemaining)

		batches, err := env.divestments.GetAllBatches(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, batches)

		stored := env.getUser(t, user.ID)
		assert.Equal(t, int64(0), stored.NumberOfDivestments)
		assert.Equal(t, 0.0, stored.TotalDivestment)
	})

	t.Run("LotsNewerThanSaleAreNotEligible", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)
		env.createLot(t, user.ID, "ACME", 5.0, 10, date(2024, 1, 10))
		env.createLot(t, user.ID, "ACME", 6.0, 10, date(2024, 2, 10))

		// Only the January lot is eligible on Jan 15, so 15 can't be covered.
		_, err := env.divestments.CreateBatch(ctx, user.ID, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    8.0,
			Quantity:     15,
			DateDivested: schemas.NewDate(date(2024, 1, 15)),
		})
		require.ErrorIs(t, err, services.ErrInsufficientInventory)
	})

	t.Run("OtherCompaniesLotsAreNotEligible", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)
		env.createLot(t, user.ID, "ACME", 5.0, 10, date(2024, 1, 10))
		env.createLot(t, user.ID, "GLOBEX", 6.0, 10, date(2024, 1, 10))

		_, err := env.divestments.CreateBatch(ctx, user.ID, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    8.0,
			Quantity:     15,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.ErrorIs(t, err, services.ErrInsufficientInventory)
	})

	t.Run("ValidationRejectsBadRequests", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)

		cases := []struct {
			name string
			req  schemas.DivestmentBatchRequest
			want error
		}{
			{"MissingCompany", schemas.DivestmentBatchRequest{UnitPrice: 1, Quantity: 1, DateDivested: schemas.NewDate(date(2024, 3, 1))}, services.ErrInvalidRequest},
			{"ZeroQuantity", schemas.DivestmentBatchRequest{Company: "ACME", UnitPrice: 1, DateDivested: schemas.NewDate(date(2024, 3, 1))}, services.ErrInvalidRequest},
			{"NegativePrice", schemas.DivestmentBatchRequest{Company: "ACME", UnitPrice: -1, Quantity: 1, DateDivested: schemas.NewDate(date(2024, 3, 1))}, services.ErrInvalidRequest},
			{"MissingDate", schemas.DivestmentBatchRequest{Company: "ACME", UnitPrice: 1, Quantity: 1}, services.ErrInvalidDate},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := env.divestments.CreateBatch(ctx, user.ID, &tc.req)
				require.ErrorIs(t, err, tc.want)
			})
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.divestments.CreateBatch(ctx, 42, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    8.0,
			Quantity:     1,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.ErrorIs(t, err, services.ErrNotFound)
	})
}

func TestDivestmentService_DeleteBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("RestoresLotsAndAggregates", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)
		lotA := env.createLot(t, user.ID, "ACME", 5.0, 10, date(2024, 1, 10))
		lotB := env.createLot(t, user.ID, "ACME", 6.0, 10, date(2024, 2, 10))

		batch, err := env.divestments.CreateBatch(ctx, user.ID, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    8.0,
			Quantity:     15,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.NoError(t, err)

		require.NoError(t, env.divestments.DeleteBatch(ctx, user.ID, batch.ID))

		restoredA := env.getLot(t, user.ID, lotA.ID)
		assert.Equal(t, int64(10), restoredA.QuantityRemaining)
		assert.True(t, restoredA.IsActive)
		restoredB := env.getLot(t, user.ID, lotB.ID)
		assert.Equal(t, int64(10), restoredB.QuantityRemaining)

		_, err = env.divestments.GetBatchByID(ctx, user.ID, batch.ID)
		require.ErrorIs(t, err, services.ErrNotFound)

		allocations, err := env.divestments.GetAllAllocations(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, allocations)

		stored := env.getUser(t, user.ID)
		assert.Equal(t, int64(0), stored.NumberOfDivestments)
		assert.Equal(t, 0.0, stored.TotalDivestment)
	})

	t.Run("UnknownBatch", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)
		err := env.divestments.DeleteBatch(ctx, user.ID, 99)
		require.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("OtherOwnersBatchIsInvisible", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)
		env.createLot(t, user.ID, "ACME", 5.0, 10, date(2024, 1, 10))
		batch, err := env.divestments.CreateBatch(ctx, user.ID, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    8.0,
			Quantity:     5,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.NoError(t, err)

		other, err := env.users.CreateUser(ctx, &schemas.UserRequest{Username: "eve", Email: "eve@example.com"})
		require.NoError(t, err)

		err = env.divestments.DeleteBatch(ctx, other.ID, batch.ID)
		require.ErrorIs(t, err, services.ErrNotFound)
	})
}

func TestDivestmentService_UpdateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("ReallocatesAsIfCreatedFresh", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)
		lotA := env.createLot(t, user.ID, "ACME", 5.0, 10, date(2024, 1, 10))
		lotB := env.createLot(t, user.ID, "ACME", 6.0, 10, date(2024, 2, 10))

		batch, err := env.divestments.CreateBatch(ctx, user.ID, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    8.0,
			Quantity:     15,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.NoError(t, err)

		updated, err := env.divestments.UpdateBatch(ctx, user.ID, batch.ID, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    9.0,
			Quantity:     8,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.NoError(t, err)
		assert.Equal(t, 72.0, updated.Revenue)

		// 8 units now come entirely from the older lot.
		allocations, err := env.divestments.GetAllocationsByBatch(ctx, user.ID, batch.ID)
		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, lotA.ID, allocations[0].InvestmentID)
		assert.Equal(t, int64(8), allocations[0].Quantity)

		assert.Equal(t, int64(2), env.getLot(t, user.ID, lotA.ID).QuantityRemaining)
		assert.Equal(t, int64(10), env.getLot(t, user.ID, lotB.ID).QuantityRemaining)

		stored := env.getUser(t, user.ID)
		assert.Equal(t, int64(1), stored.NumberOfDivestments)
		assert.Equal(t, 72.0, stored.TotalDivestment)
	})

	t.Run("FailedUpdateKeepsOriginalAllocations", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)
		lotA := env.createLot(t, user.ID, "ACME", 5.0, 10, date(2024, 1, 10))
		lotB := env.createLot(t, user.ID, "ACME", 6.0, 10, date(2024, 2, 10))

		batch, err := env.divestments.CreateBatch(ctx, user.ID, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    8.0,
			Quantity:     15,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.NoError(t, err)

		_, err = env.divestments.UpdateBatch(ctx, user.ID, batch.ID, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    9.0,
			Quantity:     25,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.ErrorIs(t, err, services.ErrInsufficientInventory)

		unchanged, err := env.divestments.GetBatchByID(ctx, user.ID, batch.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(15), unchanged.Quantity)
		assert.Equal(t, 120.0, unchanged.Revenue)

		allocations, err := env.divestments.GetAllocationsByBatch(ctx, user.ID, batch.ID)
		require.NoError(t, err)
		require.Len(t, allocations, 2)

		assert.Equal(t, int64(0), env.getLot(t, user.ID, lotA.ID).QuantityRemaining)
		assert.Equal(t, int64(5), env.getLot(t, user.ID, lotB.ID).QuantityRemaining)

		stored := env.getUser(t, user.ID)
		assert.Equal(t, int64(1), stored.NumberOfDivestments)
		assert.Equal(t, 120.0, stored.TotalDivestment)
	})

	t.Run("CanMoveBatchToAnotherCompany", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)
		lotA := env.createLot(t, user.ID, "ACME", 5.0, 10, date(2024, 1, 10))
		lotG := env.createLot(t, user.ID, "GLOBEX", 3.0, 10, date(2024, 1, 10))

		batch, err := env.divestments.CreateBatch(ctx, user.ID, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    8.0,
			Quantity:     5,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.NoError(t, err)

		_, err = env.divestments.UpdateBatch(ctx, user.ID, batch.ID, &schemas.DivestmentBatchRequest{
			Company:      "GLOBEX",
			UnitPrice:    4.0,
			Quantity:     6,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.NoError(t, err)

		assert.Equal(t, int64(10), env.getLot(t, user.ID, lotA.ID).QuantityRemaining)
		assert.Equal(t, int64(4), env.getLot(t, user.ID, lotG.ID).QuantityRemaining)
	})
}
