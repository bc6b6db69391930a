package models

// Projection rows for the grouped analytics queries. They never hit the write
// path; the repositories fill them straight from aggregate scans.

type InvestmentSummary struct {
	NumInvestments      int64
	TotalInvested       float64
	DistinctCompanies   int64
	QuantityInvested    int64
	QuantityNonRealized int64
}

type DivestmentSummary struct {
	NumDivestments    int64
	TotalDivested     float64
	DistinctCompanies int64
	QuantityDivested  int64
	RealizedCost      float64
	RealizedRevenue   float64
	NetReturn         float64
}

type CompanyInvestmentSummary struct {
	Company             string
	NumInvestments      int64
	TotalInvested       float64
	QuantityInvested    int64
	QuantityNonRealized int64
}

type CompanyDivestmentSummary struct {
	Company          string
	NumDivestments   int64
	TotalDivested    float64
	QuantityDivested int64
	RealizedCost     float64
	RealizedRevenue  float64
	NetReturn        float64
}
