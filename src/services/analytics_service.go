package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ledger/src/models"
	"ledger/src/repositories"
	"ledger/src/schemas"
	"ledger/src/utils"
	redis_utils "ledger/src/utils/redis"

	"github.com/jackc/pgx/v5"
)

type AnalyticsServiceI interface {
	GetUserAnalytics(ctx context.Context, ownerID int64, since time.Time) (*schemas.AnalyticsResponse, error)
}

// AnalyticsService answers the read-only aggregate queries. Everything is
// recomputed from the live rows inside one transaction, so a response never
// mixes state from before and after a concurrent allocation.
type AnalyticsService struct {
	txm         repositories.TxManager
	users       repositories.UserRepository
	investments repositories.InvestmentRepository
	divestments repositories.DivestmentRepository
	cache       *AnalyticsCache
}

func NewAnalyticsService(
	txm repositories.TxManager,
	users repositories.UserRepository,
	investments repositories.InvestmentRepository,
	divestments repositories.DivestmentRepository,
	cache *AnalyticsCache,
) *AnalyticsService {
	return &AnalyticsService{
		txm:         txm,
		users:       users,
		investments: investments,
		divestments: divestments,
		cache:       cache,
	}
}

func (s *AnalyticsService) GetUserAnalytics(ctx context.Context, ownerID int64, since time.Time) (*schemas.AnalyticsResponse, error) {
	since = utils.DateOnly(since)

	if s.cache != nil {
		if resp, ok := s.cache.Get(ownerID, since); ok {
			return resp, nil
		}
	}

	var resp *schemas.AnalyticsResponse
	err := s.txm.WithTx(ctx, func(tx pgx.Tx) error {
		user, err := s.users.GetByID(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %d", ErrNotFound, ownerID)
		}

		invSummary, err := s.investments.Summarize(ctx, tx, ownerID, since)
		if err != nil {
			return err
		}
		divSummary, err := s.divestments.Summarize(ctx, tx, ownerID, since)
		if err != nil {
			return err
		}
		invByCompany, err := s.investments.SummarizeByCompany(ctx, tx, ownerID, since)
		if err != nil {
			return err
		}
		divByCompany, err := s.divestments.SummarizeByCompany(ctx, tx, ownerID, since)
		if err != nil {
			return err
		}

		resp = buildAnalyticsResponse(since, invSummary, divSummary, invByCompany, divByCompany)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ownerID, since, resp)
	}
	return resp, nil
}

// buildAnalyticsResponse joins the divestment sums onto the investment sums by
// company; companies only ever divested do not appear, matching the
// investments-led join of the analytics report.
func buildAnalyticsResponse(
	since time.Time,
	invSummary *models.InvestmentSummary,
	divSummary *models.DivestmentSummary,
	invByCompany []models.CompanyInvestmentSummary,
	divByCompany []models.CompanyDivestmentSummary,
) *schemas.AnalyticsResponse {
	divested := make(map[string]models.CompanyDivestmentSummary, len(divByCompany))
	for _, d := range divByCompany {
		divested[d.Company] = d
	}

	details := make([]schemas.CompanyDetail, 0, len(invByCompany))
	for _, inv := range invByCompany {
		detail := schemas.CompanyDetail{
			CompanyName:                   inv.Company,
			NumInvestments:                inv.NumInvestments,
			TotalInvested:                 inv.TotalInvested,
			QuantityInvested:              inv.QuantityInvested,
			QuantityNonRealizedInvestment: inv.QuantityNonRealized,
		}
		if div, ok := divested[inv.Company]; ok {
			detail.NumDivestments = div.NumDivestments
			detail.TotalDivested = div.TotalDivested
			detail.QuantityDivested = div.QuantityDivested
			detail.CostOfRealizedInvestment = div.RealizedCost
			detail.RevenueFromRealizedInvestment = div.RealizedRevenue
			detail.NetReturn = div.NetReturn
		}
		details = append(details, detail)
	}

	return &schemas.AnalyticsResponse{
		FromDate:                      schemas.NewDate(since),
		NumInvestments:                invSummary.NumInvestments,
		NumDivestments:                divSummary.NumDivestments,
		DistinctCompaniesInvested:     invSummary.DistinctCompanies,
		DistinctCompaniesDivested:     divSummary.DistinctCompanies,
		TotalInvested:                 invSummary.TotalInvested,
		TotalDivested:                 divSummary.TotalDivested,
		QuantityInvested:              invSummary.QuantityInvested,
		QuantityNonRealizedInvestment: invSummary.QuantityNonRealized,
		QuantityDivested:              divSummary.QuantityDivested,
		CostOfRealizedInvestment:      divSummary.RealizedCost,
		RevenueFromRealizedInvestment: divSummary.RealizedRevenue,
		NetReturn:                     divSummary.NetReturn,
		InvestmentsByCompany:          details,
	}
}

// AnalyticsCache keeps rendered analytics responses in redis. Keys embed a
// per-owner version counter; invalidation bumps the counter instead of
// scanning for keys, and stale entries age out via TTL.
type AnalyticsCache struct {
	redis *redis_utils.RedisHandler
	ttl   time.Duration
}

func NewAnalyticsCache(redis *redis_utils.RedisHandler, ttl time.Duration) *AnalyticsCache {
	return &AnalyticsCache{redis: redis, ttl: ttl}
}

func (c *AnalyticsCache) versionKey(ownerID int64) string {
	return "analytics:ver:" + strconv.FormatInt(ownerID, 10)
}

func (c *AnalyticsCache) key(ownerID int64, since time.Time) (string, error) {
	version, err := c.redis.IncrBy(c.versionKey(ownerID), 0)
	if err != nil {
		return "", err
	}
	id := redis_utils.GenerateUUID(
		strconv.FormatInt(ownerID, 10),
		since.Format(utils.ShortDashDateLayout),
		strconv.FormatInt(version, 10),
	)
	return "analytics:" + id, nil
}

// Get treats any redis failure as a cache miss.
func (c *AnalyticsCache) Get(ownerID int64, since time.Time) (*schemas.AnalyticsResponse, bool) {
	key, err := c.key(ownerID, since)
	if err != nil {
		return nil, false
	}
	var resp schemas.AnalyticsResponse
	ok, err := c.redis.Get(key, &resp)
	if err != nil || !ok {
		return nil, false
	}
	return &resp, true
}

func (c *AnalyticsCache) Set(ownerID int64, since time.Time, resp *schemas.AnalyticsResponse) {
	key, err := c.key(ownerID, since)
	if err != nil {
		return
	}
	_ = c.redis.Set(key, resp, c.ttl)
}

func (c *AnalyticsCache) Invalidate(ownerID int64) {
	_, _ = c.redis.IncrBy(c.versionKey(ownerID), 1)
}
