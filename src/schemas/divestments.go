package schemas

import "ledger/src/models"

type DivestmentBatchRequest struct {
	Company      string  `json:"company"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int64   `json:"quantity"`
	DateDivested Date    `json:"date_divested"`
}

type DivestmentBatchResponse struct {
	ID           int64   `json:"id"`
	Company      string  `json:"company"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int64   `json:"quantity"`
	Revenue      float64 `json:"revenue"`
	DateDivested Date    `json:"date_divested"`
}

func NewDivestmentBatchResponse(b *models.DivestmentBatch) *DivestmentBatchResponse {
	return &DivestmentBatchResponse{
		ID:           b.ID,
		Company:      b.Company,
		UnitPrice:    b.UnitPrice,
		Quantity:     b.Quantity,
		Revenue:      b.Revenue,
		DateDivested: NewDate(b.DateDivested),
	}
}

func NewDivestmentBatchResponses(batches []models.DivestmentBatch) []*DivestmentBatchResponse {
	responses := make([]*DivestmentBatchResponse, len(batches))
	for i := range batches {
		responses[i] = NewDivestmentBatchResponse(&batches[i])
	}
	return responses
}

// DivestmentResponse is one per-lot allocation of a batch.
type DivestmentResponse struct {
	ID               int64   `json:"id"`
	BatchID          int64   `json:"batch_id"`
	InvestmentID     int64   `json:"investment_id"`
	Company          string  `json:"company"`
	Quantity         int64   `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	DateInvested     Date    `json:"date_invested"`
	DateDivested     Date    `json:"date_divested"`
	CostOfInvestment float64 `json:"cost_of_investment"`
	Revenue          float64 `json:"revenue"`
	NetReturn        float64 `json:"net_return"`
}

func NewDivestmentResponse(d *models.Divestment) *DivestmentResponse {
	return &DivestmentResponse{
		ID:               d.ID,
		BatchID:          d.BatchID,
		InvestmentID:     d.InvestmentID,
		Company:          d.Company,
		Quantity:         d.Quantity,
		UnitPrice:        d.UnitPrice,
		DateInvested:     NewDate(d.DateInvested),
		DateDivested:     NewDate(d.DateDivested),
		CostOfInvestment: d.CostOfInvestment,
		Revenue:          d.Revenue,
		NetReturn:        d.NetReturn,
	}
}

func NewDivestmentResponses(divestments []models.Divestment) []*DivestmentResponse {
	responses := make([]*DivestmentResponse, len(divestments))
	for i := range divestments {
		responses[i] = NewDivestmentResponse(&divestments[i])
	}
	return responses
}
