package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kirychukyurii/dr-dashboard/internal/model"
	"github.com/kirychukyurii/dr-dashboard/internal/service"
	"github.com/kirychukyurii/dr-dashboard/internal/view"
)

// stateResponse is the JSON form of the dashboard
type stateResponse struct {
	State model.State `json:"state"`
	Page  view.Page   `json:"page"`
}

// failoverRequest is the body of POST /api/failover
type failoverRequest struct {
	Confirm bool `json:"confirm"`
}

// failoverResponse is the answer of POST /api/failover
type failoverResponse struct {
	Confirmed bool        `json:"confirmed"`
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	State     model.State `json:"state"`
}

// GetState handles GET /api/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	state := h.service.Snapshot()
	h.respondJSON(w, http.StatusOK, stateResponse{
		State: state,
		Page:  view.Render(state),
	})
}

// RefreshState handles POST /api/refresh, it answers once the status load has finished
func (h *Handler) RefreshState(w http.ResponseWriter, r *http.Request) {
	if err := h.service.LoadStatus(context.WithoutCancel(r.Context())); err != nil {
		h.respondActionError(w, err)
		return
	}

	h.GetState(w, r)
}

// RequestFailover handles POST /api/failover, {"confirm": true} grants the confirmation
func (h *Handler) RequestFailover(w http.ResponseWriter, r *http.Request) {
	var req failoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	confirmer := service.ConfirmFunc(func(context.Context, string) (bool, error) {
		return req.Confirm, nil
	})

	outcome, err := h.service.RequestFailover(context.WithoutCancel(r.Context()), confirmer, service.RequestedByWeb)
	if err != nil {
		h.respondActionError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, failoverResponse{
		Confirmed: outcome.Confirmed,
		Success:   outcome.Success,
		Message:   outcome.Message,
		State:     h.service.Snapshot(),
	})
}

// Healthz handles GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) respondActionError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrBusy) {
		h.respondError(w, http.StatusConflict, err.Error())
		return
	}

	h.logger.Error("operator action failed",
		slog.String("error", err.Error()),
	)
	h.respondError(w, http.StatusInternalServerError, "operator action failed")
}
