package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ledger/src/schemas"
	"ledger/src/utils"
)

func (h *Handler) GetAllDivestmentBatches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	owner, err := ownerID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	batches, err := h.DivestmentService.GetAllBatches(ctx, owner)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.NewDivestmentBatchResponses(batches), http.StatusOK)
}

func (h *Handler) GetDivestmentBatchByID(w http.ResponseWriter, r *http.Request) {
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

	batch, err := h.DivestmentService.GetBatchByID(ctx, owner, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.NewDivestmentBatchResponse(batch), http.StatusOK)
}

func (h *Handler) GetBatchAllocations(w http.ResponseWriter, r *http.Request) {
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

	allocations, err := h.DivestmentService.GetAllocationsByBatch(ctx, owner, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.NewDivestmentResponses(allocations), http.StatusOK)
}

func (h *Handler) GetAllAllocations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	owner, err := ownerID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	allocations, err := h.DivestmentService.GetAllAllocations(ctx, owner)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.NewDivestmentResponses(allocations), http.StatusOK)
}

func (h *Handler) CreateDivestmentBatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	owner, err := ownerID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.DivestmentBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest(err.Error()))
		return
	}

	batch, err := h.DivestmentService.CreateBatch(ctx, owner, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.CreatedResponse{ID: batch.ID, Message: "Divestment created successfully"}, http.StatusCreated)
}

func (h *Handler) UpdateDivestmentBatch(w http.ResponseWriter, r *http.Request) {
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

	var req schemas.DivestmentBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest(err.Error()))
		return
	}

	if _, err := h.DivestmentService.UpdateBatch(ctx, owner, id, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.MessageResponse{Message: "Divestment updated successfully"}, http.StatusOK)
}

func (h *Handler) DeleteDivestmentBatch(w http.ResponseWriter, r *http.Request) {
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

	if err := h.DivestmentService.DeleteBatch(ctx, owner, id); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.MessageResponse{Message: "Divestment deleted successfully"}, http.StatusOK)
}
