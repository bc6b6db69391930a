package services_test

import (
	"context"
	"testing"
	"time"

	"ledger/src/models"
	"ledger/src/repositories"
	"ledger/src/schemas"
	"ledger/src/services"

	"github.com/stretchr/testify/require"
)

// testEnv wires the full service stack over the in-memory store so the tests
// exercise the same transaction and rollback paths as production code.
type testEnv struct {
	store       *repositories.MemoryStore
	users       *services.UserService
	investments *services.InvestmentService
	divestments *services.DivestmentService
	analytics   *services.AnalyticsService
	integrity   *services.IntegrityService
}

func newTestEnv() *testEnv {
	store := repositories.NewMemoryStore()
	txm := store.TxManager()
	users := store.Users()
	investments := store.Investments()
	batches := store.DivestmentBatches()
	divestments := store.Divestments()

	return &testEnv{
		store:       store,
		users:       services.NewUserService(txm, users),
		investments: services.NewInvestmentService(txm, users, investments, batches, divestments, nil),
		divestments: services.NewDivestmentService(txm, users, investments, batches, divestments, nil),
		analytics:   services.NewAnalyticsService(txm, users, investments, divestments, nil),
		integrity:   services.NewIntegrityService(txm, users, investments, batches, divestments),
	}
}

func (e *testEnv) createUser(t *testing.T) *models.User {
	t.Helper()
	user, err := e.users.CreateUser(context.Background(), &schemas.UserRequest{
		Username: "maria",
		Email:    "maria@example.com",
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) getUser(t *testing.T, id int64) *models.User {
	t.Helper()
	user, err := e.store.Users().GetByID(context.Background(), nil, id)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func (e *testEnv) createLot(t *testing.T, ownerID int64, company string, price float64, qty int64, invested time.Time) *models.Investment {
	t.Helper()
	inv, err := e.investments.CreateInvestment(context.Background(), ownerID, &schemas.InvestmentRequest{
		Company:      company,
		UnitPrice:    price,
		Quantity:     qty,
		DateInvested: schemas.NewDate(invested),
	})
	require.NoError(t, err)
	return inv
}

func (e *testEnv) getLot(t *testing.T, ownerID, id int64) *models.Investment {
	t.Helper()
	lot, err := e.store.Investments().GetByID(context.Background(), nil, ownerID, id)
	require.NoError(t, err)
	require.NotNil(t, lot)
	return lot
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
