package schemas

import "ledger/src/models"

type InvestmentRequest struct {
	Title        string  `json:"title"`
	Company      string  `json:"company"`
	Description  string  `json:"description"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int64   `json:"quantity"`
	DateInvested Date    `json:"date_invested"`
}

type InvestmentResponse struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	Company           string  `json:"company"`
	Description       string  `json:"description"`
	UnitPrice         float64 `json:"unit_price"`
	Quantity          int64   `json:"quantity"`
	QuantityRemaining int64   `json:"quantity_remaining"`
	IsActive          bool    `json:"is_active"`
	DateInvested      Date    `json:"date_invested"`
}

func NewInvestmentResponse(inv *models.Investment) *InvestmentResponse {
	return &InvestmentResponse{
		ID:                inv.ID,
		Title:             inv.Title,
		Company:           inv.Company,
		Description:       inv.Description,
		UnitPrice:         inv.UnitPrice,
		Quantity:          inv.Quantity,
		QuantityRemaining: inv.QuantityRemaining,
		IsActive:          inv.IsActive,
		DateInvested:      NewDate(inv.DateInvested),
	}
}

func NewInvestmentResponses(investments []models.Investment) []*InvestmentResponse {
	responses := make([]*InvestmentResponse, len(investments))
	for i := range investments {
		responses[i] = NewInvestmentResponse(&investments[i])
	}
	return responses
}

type CreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
