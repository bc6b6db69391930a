package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"ledger/src/models"

	"github.com/jackc/pgx/v5"
)

// MemoryStore is a map-backed stand-in for the Postgres ledger, used by the
// service tests. Its TxManager serializes transactions with a mutex and
// snapshots the maps before running the callback, so a failed transaction
// rolls every mutation back exactly like the real store.
type MemoryStore struct {
	mu          sync.Mutex
	users       map[int64]models.User
	investments map[int64]models.Investment
	batches     map[int64]models.DivestmentBatch
	divestments map[int64]models.Divestment
	nextID      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       map[int64]models.User{},
		investments: map[int64]models.Investment{},
		batches:     map[int64]models.DivestmentBatch{},
		divestments: map[int64]models.Divestment{},
	}
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) snapshot() (users map[int64]models.User, investments map[int64]models.Investment,
	batches map[int64]models.DivestmentBatch, divestments map[int64]models.Divestment, nextID int64) {
	return cloneMap(s.users), cloneMap(s.investments), cloneMap(s.batches), cloneMap(s.divestments), s.nextID
}

// TxManager returns a unit-of-work handle over the memory store.
func (s *MemoryStore) TxManager() TxManager { return &memoryTxManager{store: s} }

func (s *MemoryStore) Users() UserRepository                       { return &memoryUserRepo{s} }
func (s *MemoryStore) Investments() InvestmentRepository           { return &memoryInvestmentRepo{s} }
func (s *MemoryStore) DivestmentBatches() DivestmentBatchRepository { return &memoryBatchRepo{s} }
func (s *MemoryStore) Divestments() DivestmentRepository           { return &memoryDivestmentRepo{s} }

type memoryTxManager struct {
	store *MemoryStore
}

func (m *memoryTxManager) WithTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	users, investments, batches, divestments, nextID := s.snapshot()
	if err := fn(nil); err != nil {
		s.users, s.investments, s.batches, s.divestments, s.nextID = users, investments, batches, divestments, nextID
		return err
	}
	return nil
}

type memoryUserRepo struct{ s *MemoryStore }

func (r *memoryUserRepo) GetByID(_ context.Context, _ pgx.Tx, id int64) (*models.User, error) {
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *memoryUserRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.User, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *memoryUserRepo) Create(_ context.Context, _ pgx.Tx, u *models.User) error {
	u.ID = r.s.id()
	u.CreatedAt = time.Now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *memoryUserRepo) UpdateAggregates(_ context.Context, _ pgx.Tx, u *models.User) error {
	stored := r.s.users[u.ID]
	stored.NumberOfInvestments = u.NumberOfInvestments
	stored.TotalInvestment = u.TotalInvestment
	stored.NumberOfDivestments = u.NumberOfDivestments
	stored.TotalDivestment = u.TotalDivestment
	r.s.users[u.ID] = stored
	return nil
}

func (r *memoryUserRepo) ListIDs(_ context.Context, _ pgx.Tx) ([]int64, error) {
	var ids []int64
	for id, u := range r.s.users {
		if u.Active {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type memoryInvestmentRepo struct{ s *MemoryStore }

func sortLots(lots []models.Investment) {
	sort.Slice(lots, func(i, j int) bool {
		if !lots[i].DateInvested.Equal(lots[j].DateInvested) {
			return lots[i].DateInvested.Before(lots[j].DateInvested)
		}
		return lots[i].ID < lots[j].ID
	})
}

func (r *memoryInvestmentRepo) GetByOwner(_ context.Context, _ pgx.Tx, ownerID int64) ([]models.Investment, error) {
	var lots []models.Investment
	for _, inv := range r.s.investments {
		if inv.OwnerID == ownerID {
			lots = append(lots, inv)
		}
	}
	sortLots(lots)
	return lots, nil
}

func (r *memoryInvestmentRepo) GetByID(_ context.Context, _ pgx.Tx, ownerID, id int64) (*models.Investment, error) {
	if inv, ok := r.s.investments[id]; ok && inv.OwnerID == ownerID {
		return &inv, nil
	}
	return nil, nil
}

func (r *memoryInvestmentRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, ownerID, id int64) (*models.Investment, error) {
	return r.GetByID(ctx, tx, ownerID, id)
}

func (r *memoryInvestmentRepo) ListOpenLots(_ context.Context, _ pgx.Tx, ownerID int64, company string, asOf time.Time) ([]models.Investment, error) {
	var lots []models.Investment
	for _, inv := range r.s.investments {
		if inv.OwnerID == ownerID && inv.Company == company && inv.IsActive && !inv.DateInvested.After(asOf) {
			lots = append(lots, inv)
		}
	}
	sortLots(lots)
	return lots, nil
}

func (r *memoryInvestmentRepo) Create(_ context.Context, _ pgx.Tx, inv *models.Investment) error {
	inv.ID = r.s.id()
	inv.CreatedAt = time.Now()
	r.s.investments[inv.ID] = *inv
	return nil
}

func (r *memoryInvestmentRepo) Update(_ context.Context, _ pgx.Tx, inv *models.Investment) error {
	r.s.investments[inv.ID] = *inv
	return nil
}

func (r *memoryInvestmentRepo) Delete(_ context.Context, _ pgx.Tx, ownerID, id int64) error {
	if inv, ok := r.s.investments[id]; ok && inv.OwnerID == ownerID {
		delete(r.s.investments, id)
	}
	return nil
}

func (r *memoryInvestmentRepo) Totals(_ context.Context, _ pgx.Tx, ownerID int64) (int64, float64, error) {
	var count int64
	var totalCost float64
	for _, inv := range r.s.investments {
		if inv.OwnerID == ownerID {
			count++
			totalCost += inv.UnitPrice * float64(inv.Quantity)
		}
	}
	return count, totalCost, nil
}

func (r *memoryInvestmentRepo) Summarize(_ context.Context, _ pgx.Tx, ownerID int64, since time.Time) (*models.InvestmentSummary, error) {
	var s models.InvestmentSummary
	companies := map[string]bool{}
	for _, inv := range r.s.investments {
		if inv.OwnerID != ownerID || inv.DateInvested.Before(since) {
			continue
		}
		s.NumInvestments++
		s.TotalInvested += inv.UnitPrice * float64(inv.Quantity)
		s.QuantityInvested += inv.Quantity
		s.QuantityNonRealized += inv.QuantityRemaining
		companies[inv.Company] = true
	}
	s.DistinctCompanies = int64(len(companies))
	return &s, nil
}

func (r *memoryInvestmentRepo) SummarizeByCompany(_ context.Context, _ pgx.Tx, ownerID int64, since time.Time) ([]models.CompanyInvestmentSummary, error) {
	byCompany := map[string]*models.CompanyInvestmentSummary{}
	for _, inv := range r.s.investments {
		if inv.OwnerID != ownerID || inv.DateInvested.Before(since) {
			continue
		}
		s, ok := byCompany[inv.Company]
		if !ok {
			s = &models.CompanyInvestmentSummary{Company: inv.Company}
			byCompany[inv.Company] = s
		}
		s.NumInvestments++
		s.TotalInvested += inv.UnitPrice * float64(inv.Quantity)
		s.QuantityInvested += inv.Quantity
		s.QuantityNonRealized += inv.QuantityRemaining
	}
	return sortedCompanySummaries(byCompany, func(s *models.CompanyInvestmentSummary) string { return s.Company }), nil
}

func sortedCompanySummaries[S any](byCompany map[string]*S, key func(*S) string) []S {
	var out []S
	for _, s := range byCompany {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return key(&out[i]) < key(&out[j]) })
	return out
}

type memoryBatchRepo struct{ s *MemoryStore }

func (r *memoryBatchRepo) GetByOwner(_ context.Context, _ pgx.Tx, ownerID int64) ([]models.DivestmentBatch, error) {
	var batches []models.DivestmentBatch
	for _, b := range r.s.batches {
		if b.OwnerID == ownerID {
			batches = append(batches, b)
		}
	}
	sort.Slice(batches, func(i, j int) bool {
		if !batches[i].DateDivested.Equal(batches[j].DateDivested) {
			return batches[i].DateDivested.Before(batches[j].DateDivested)
		}
		return batches[i].ID < batches[j].ID
	})
	return batches, nil
}

func (r *memoryBatchRepo) GetByID(_ context.Context, _ pgx.Tx, ownerID, id int64) (*models.DivestmentBatch, error) {
	if b, ok := r.s.batches[id]; ok && b.OwnerID == ownerID {
		return &b, nil
	}
	return nil, nil
}

func (r *memoryBatchRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, ownerID, id int64) (*models.DivestmentBatch, error) {
	return r.GetByID(ctx, tx, ownerID, id)
}

func (r *memoryBatchRepo) Create(_ context.Context, _ pgx.Tx, b *models.DivestmentBatch) error {
	b.ID = r.s.id()
	b.CreatedAt = time.Now()
	r.s.batches[b.ID] = *b
	return nil
}

func (r *memoryBatchRepo) Update(_ context.Context, _ pgx.Tx, b *models.DivestmentBatch) error {
	r.s.batches[b.ID] = *b
	return nil
}

func (r *memoryBatchRepo) Delete(_ context.Context, _ pgx.Tx, ownerID, id int64) error {
	if b, ok := r.s.batches[id]; ok && b.OwnerID == ownerID {
		delete(r.s.batches, id)
	}
	return nil
}

func (r *memoryBatchRepo) Totals(_ context.Context, _ pgx.Tx, ownerID int64) (int64, float64, error) {
	var count int64
	var revenue float64
	for _, b := range r.s.batches {
		if b.OwnerID == ownerID {
			count++
			revenue += b.Revenue
		}
	}
	return count, revenue, nil
}

type memoryDivestmentRepo struct{ s *MemoryStore }

func (r *memoryDivestmentRepo) list(match func(models.Divestment) bool) []models.Divestment {
	var divestments []models.Divestment
	for _, d := range r.s.divestments {
		if match(d) {
			divestments = append(divestments, d)
		}
	}
	sort.Slice(divestments, func(i, j int) bool { return divestments[i].ID < divestments[j].ID })
	return divestments
}

func (r *memoryDivestmentRepo) GetByOwner(_ context.Context, _ pgx.Tx, ownerID int64) ([]models.Divestment, error) {
	return r.list(func(d models.Divestment) bool { return d.OwnerID == ownerID }), nil
}

func (r *memoryDivestmentRepo) ListByBatch(_ context.Context, _ pgx.Tx, batchID int64) ([]models.Divestment, error) {
	return r.list(func(d models.Divestment) bool { return d.BatchID == batchID }), nil
}

func (r *memoryDivestmentRepo) BatchIDsByInvestment(_ context.Context, _ pgx.Tx, investmentID int64) ([]int64, error) {
	seen := map[int64]bool{}
	var ids []int64
	for _, d := range r.s.divestments {
		if d.InvestmentID == investmentID && !seen[d.BatchID] {
			seen[d.BatchID] = true
			ids = append(ids, d.BatchID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *memoryDivestmentRepo) AllocatedByInvestment(_ context.Context, _ pgx.Tx, investmentID int64) (int64, error) {
	var allocated int64
	for _, d := range r.s.divestments {
		if d.InvestmentID == investmentID {
			allocated += d.Quantity
		}
	}
	return allocated, nil
}

func (r *memoryDivestmentRepo) Create(_ context.Context, _ pgx.Tx, d *models.Divestment) error {
	d.ID = r.s.id()
	d.CreatedAt = time.Now()
	r.s.divestments[d.ID] = *d
	return nil
}

func (r *memoryDivestmentRepo) DeleteByBatch(_ context.Context, _ pgx.Tx, batchID int64) error {
	for id, d := range r.s.divestments {
		if d.BatchID == batchID {
			delete(r.s.divestments, id)
		}
	}
	return nil
}

func (r *memoryDivestmentRepo) Summarize(_ context.Context, _ pgx.Tx, ownerID int64, since time.Time) (*models.DivestmentSummary, error) {
	var s models.DivestmentSummary
	companies := map[string]bool{}
	for _, d := range r.s.divestments {
		if d.OwnerID != ownerID || d.DateInvested.Before(since) {
			continue
		}
		s.NumDivestments++
		s.TotalDivested += float64(d.Quantity) * d.UnitPrice
		s.QuantityDivested += d.Quantity
		s.RealizedCost += d.CostOfInvestment
		s.RealizedRevenue += d.Revenue
		s.NetReturn += d.NetReturn
		companies[d.Company] = true
	}
	s.DistinctCompanies = int64(len(companies))
	return &s, nil
}

func (r *memoryDivestmentRepo) SummarizeByCompany(_ context.Context, _ pgx.Tx, ownerID int64, since time.Time) ([]models.CompanyDivestmentSummary, error) {
	byCompany := map[string]*models.CompanyDivestmentSummary{}
	for _, d := range r.s.divestments {
		if d.OwnerID != ownerID || d.DateInvested.Before(since) {
			continue
		}
		s, ok := byCompany[d.Company]
		if !ok {
			s = &models.CompanyDivestmentSummary{Company: d.Company}
			byCompany[d.Company] = s
		}
		s.NumDivestments++
		s.TotalDivested += float64(d.Quantity) * d.UnitPrice
		s.QuantityDivested += d.Quantity
		s.RealizedCost += d.CostOfInvestment
		s.RealizedRevenue += d.Revenue
		s.NetReturn += d.NetReturn
	}
	return sortedCompanySummaries(byCompany, func(s *models.CompanyDivestmentSummary) string { return s.Company }), nil
}
