package schemas

// CompanyDetail merges the per-company investment and divestment sums; the
// divestment side is zero for companies never divested.
type CompanyDetail struct {
	CompanyName                   string  `json:"company_name"`
	NumInvestments                int64   `json:"num_investments"`
	NumDivestments                int64   `json:"num_divestments"`
	TotalInvested                 float64 `json:"total_invested"`
	TotalDivested                 float64 `json:"total_divested"`
	QuantityInvested              int64   `json:"quantity_invested"`
	QuantityNonRealizedInvestment int64   `json:"quantity_nonrealized_investment"`
	QuantityDivested              int64   `json:"quantity_divested"`
	CostOfRealizedInvestment      float64 `json:"cost_of_realized_investment"`
	RevenueFromRealizedInvestment float64 `json:"revenue_from_realized_investment"`
	NetReturn                     float64 `json:"net_return"`
}

type AnalyticsResponse struct {
	FromDate                      Date            `json:"from_date"`
	NumInvestments                int64           `json:"num_investments"`
	NumDivestments                int64           `json:"num_divestments"`
	DistinctCompaniesInvested     int64           `json:"distinct_companies_invested"`
	DistinctCompaniesDivested     int64           `json:"distinct_companies_divested"`
	TotalInvested                 float64         `json:"total_invested"`
	TotalDivested                 float64         `json:"total_divested"`
	QuantityInvested              int64           `json:"quantity_invested"`
	QuantityNonRealizedInvestment int64           `json:"quantity_nonrealized_investment"`
	QuantityDivested              int64           `json:"quantity_divested"`
	CostOfRealizedInvestment      float64         `json:"cost_of_realized_investment"`
	RevenueFromRealizedInvestment float64         `json:"revenue_from_realized_investment"`
	NetReturn                     float64         `json:"net_return"`
	InvestmentsByCompany          []CompanyDetail `json:"investments_by_company"`
}
