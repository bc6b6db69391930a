package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ledger/src/services"
	"ledger/src/utils"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	Logger            *logrus.Logger
	UserService       services.UserServiceI
	InvestmentService services.InvestmentServiceI
	DivestmentService services.DivestmentServiceI
	AnalyticsService  services.AnalyticsServiceI
}

func NewHandler(
	logger *logrus.Logger,
	userService services.UserServiceI,
	investmentService services.InvestmentServiceI,
	divestmentService services.DivestmentServiceI,
	analyticsService services.AnalyticsServiceI,
) *Handler {
	return &Handler{
		Logger:            logger,
		UserService:       userService,
		InvestmentService: investmentService,
		DivestmentService: divestmentService,
		AnalyticsService:  analyticsService,
	}
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// HandleErrors translates domain errors into HTTP responses. Anything
// unrecognized is logged and reported as a 500 without leaking internals.
func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var httpErr *utils.HTTPError
	if errors.As(err, &httpErr) {
		utils.WriteError(w, httpErr)
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.WriteError(w, utils.NotFound(err.Error()))
	case errors.Is(err, services.ErrInsufficientInventory):
		utils.WriteError(w, utils.BadRequest(err.Error()))
	case errors.Is(err, services.ErrInvalidDate):
		utils.WriteError(w, utils.BadRequest(err.Error()))
	case errors.Is(err, services.ErrConflict):
		utils.WriteError(w, utils.Conflict(err.Error()))
	case errors.Is(err, services.ErrInvalidRequest):
		utils.WriteError(w, utils.UnprocessableEntity(err.Error()))
	default:
		h.Logger.WithError(err).Error("unhandled error")
		utils.WriteError(w, utils.InternalServerError("Internal Server Error"))
	}
}

// ownerID extracts the authenticated user's id, supplied by the auth layer in
// front of this service.
func ownerID(r *http.Request) (int64, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return 0, utils.Unauthorized("missing X-User-ID header")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, utils.Unauthorized("invalid X-User-ID header")
	}
	return id, nil
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, utils.BadRequest("invalid " + name + " URL parameter")
	}
	return id, nil
}
