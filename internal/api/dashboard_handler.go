package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kirychukyurii/dr-dashboard/internal/service"
)

const busyNotice = "Another request is in flight, please wait."

// Refresh handles POST /refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	// The load outlives a disconnecting browser, its result is still published
	err := h.service.LoadStatus(context.WithoutCancel(r.Context()))
	h.handleActionError(r.Context(), "refresh", err)

	h.redirectHome(w, r)
}

// InitiateFailover handles POST /failover, submitted from the confirmation page
func (h *Handler) InitiateFailover(w http.ResponseWriter, r *http.Request) {
	confirmed := r.PostFormValue("confirm") == "yes"

	confirmer := service.ConfirmFunc(func(context.Context, string) (bool, error) {
		return confirmed, nil
	})

	_, err := h.service.RequestFailover(context.WithoutCancel(r.Context()), confirmer, service.RequestedByWeb)
	h.handleActionError(r.Context(), "failover", err)

	h.redirectHome(w, r)
}

func (h *Handler) handleActionError(ctx context.Context, action string, err error) {
	if err == nil {
		return
	}

	if errors.Is(err, service.ErrBusy) {
		h.notices.Notify(ctx, busyNotice)
	}

	h.logger.Warn("operator action not performed",
		slog.String("action", action),
		slog.String("error", err.Error()),
	)
}
