package handlers

import (
	"context"
	"net/http"
	"time"

	"ledger/src/utils"
)

// GetUserAnalytics reports grouped sums for the caller since an optional
// `since` date (YYYY-MM-DD); with no date it covers the whole history.
func (h *Handler) GetUserAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger)

	owner, err := ownerID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err = utils.ParseDate(raw)
		if err != nil {
			h.HandleErrors(w, utils.UnprocessableEntity(err.Error()))
			return
		}
	}

	analytics, err := h.AnalyticsService.GetUserAnalytics(ctx, owner, since)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, analytics, http.StatusOK)
}
