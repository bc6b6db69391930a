package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ledger/src/schemas"
	"ledger/src/utils"
)

func (h *Handler) GetAllInvestments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	owner, err := ownerID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	investments, err := h.InvestmentService.GetAllInvestments(ctx, owner)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.NewInvestmentResponses(investments), http.StatusOK)
}

func (h *Handler) GetInvestmentByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	owner, err := ownerID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	investment, err := h.InvestmentService.GetInvestmentByID(ctx, owner, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.NewInvestmentResponse(investment), http.StatusOK)
}

func (h *Handler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	owner, err := ownerID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.InvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest(err.Error()))
		return
	}

	investment, err := h.InvestmentService.CreateInvestment(ctx, owner, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.CreatedResponse{ID: investment.ID, Message: "Investment created successfully"}, http.StatusCreated)
}

func (h *Handler) UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	owner, err := ownerID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.InvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest(err.Error()))
		return
	}

	if _, err := h.InvestmentService.UpdateInvestment(ctx, owner, id, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.MessageResponse{Message: "Investment updated successfully"}, http.StatusOK)
}

func (h *Handler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	owner, err := ownerID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	if err := h.InvestmentService.DeleteInvestment(ctx, owner, id); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.MessageResponse{Message: "Investment deleted successfully"}, http.StatusOK)
}
