package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ledger/src/schemas"
	"ledger/src/utils"
)

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	var req schemas.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest(err.Error()))
		return
	}

	user, err := h.UserService.CreateUser(ctx, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.CreatedResponse{ID: user.ID, Message: "User created successfully"}, http.StatusCreated)
}

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	owner, err := ownerID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, owner)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.NewUserResponse(user), http.StatusOK)
}
