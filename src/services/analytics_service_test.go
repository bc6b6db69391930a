package services_test

import (
	"context"
	"testing"
	"time"

	"ledger/src/schemas"
	"ledger/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_GetUserAnalytics(t *testing.T) {
	ctx := context.Background()

	t.Run("SummarizesInvestmentsAndDivestments", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)
		env.createLot(t, user.ID, "ACME", 5.0, 10, date(2024, 1, 10))
		env.createLot(t, user.ID, "ACME", 6.0, 10, date(2024, 2, 10))
		env.createLot(t, user.ID, "GLOBEX", 3.0, 20, date(2024, 1, 20))

		_, err := env.divestments.CreateBatch(ctx, user.ID, &schemas.DivestmentBatchRequest{
			Company:      "ACME",
			UnitPrice:    8.0,
			Quantity:     15,
			DateDivested: schemas.NewDate(date(2024, 3, 1)),
		})
		require.NoError(t, err)

		resp, err := env.analytics.GetUserAnalytics(ctx, user.ID, time.Time{})
		require.NoError(t, err)

		assert.Equal(t, int64(3), resp.NumInvestments)
		assert.Equal(t, int64(2), resp.NumDivestments) // one allocation per lot
		assert.Equal(t, int64(2), resp.DistinctCompaniesInvested)
		assert.Equal(t, int64(1), resp.DistinctCompaniesDivested)
		assert.Equal(t, 170.0, resp.TotalInvested) // 50 + 60 + 60
		assert.Equal(t, 120.0, resp.TotalDivested)
		assert.Equal(t, int64(40), resp.QuantityInvested)
		assert.Equal(t, int64(25), resp.QuantityNonRealizedInvestment)
		assert.Equal(t, int64(15), resp.QuantityDivested)
		assert.Equal(t, 80.0, resp.CostOfRealizedInvestment) // 50 + 30
		assert.Equal(t, 120.0, resp.RevenueFromRealizedInvestment)
		assert.Equal(t, 40.0, resp.NetReturn)

		require.Len(t, resp.InvestmentsByCompany, 2)
		acme := resp.InvestmentsByCompany[0]
		assert.Equal(t, "ACME", acme.CompanyName)
		assert.Equal(t, int64(2), acme.NumInvestments)
		assert.Equal(t, 110.0, acme.TotalInvested)
		assert.Equal(t, int64(15), acme.QuantityDivested)
		assert.Equal(t, 40.0, acme.NetReturn)

		globex := resp.InvestmentsByCompany[1]
		assert.Equal(t, "GLOBEX", globex.CompanyName)
		assert.Equal(t, int64(0), globex.NumDivestments)
		assert.Equal(t, 0.0, globex.TotalDivested)
		assert.Equal(t, int64(20), globex.QuantityNonRealizedInvestment)
	})

	t.Run("SinceFiltersOutOlderLots", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)
		env.createLot(t, user.ID, "ACME", 5.0, 10, date(2023, 6, 1))
		env.createLot(t, user.ID, "ACME", 6.0, 10, date(2024, 2, 10))

		resp, err := env.analytics.GetUserAnalytics(ctx, user.ID, date(2024, 1, 1))
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.NumInvestments)
		assert.Equal(t, 60.0, resp.TotalInvested)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.analytics.GetUserAnalytics(ctx, 42, time.Time{})
		require.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("EmptyLedger", func(t *testing.T) {
		env := newTestEnv()
		user := env.createUser(t)

		resp, err := env.analytics.GetUserAnalytics(ctx, user.ID, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.NumInvestments)
		assert.Equal(t, int64(0), resp.NumDivestments)
		assert.Empty(t, resp.InvestmentsByCompany)
	})
}
