package schemas

import "ledger/src/models"

type UserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UserResponse struct {
	ID                  int64   `json:"id"`
	Username            string  `json:"username"`
	Email               string  `json:"email"`
	FirstName           string  `json:"first_name"`
	LastName            string  `json:"last_name"`
	NumberOfInvestments int64   `json:"number_of_investments"`
	TotalInvestment     float64 `json:"total_investment"`
	NumberOfDivestments int64   `json:"number_of_divestments"`
	TotalDivestment     float64 `json:"total_divestment"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		NumberOfInvestments: u.NumberOfInvestments,
		TotalInvestment:     u.TotalInvestment,
		NumberOfDivestments: u.NumberOfDivestments,
		TotalDivestment:     u.TotalDivestment,
	}
}
