package api

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/kirychukyurii/dr-dashboard/internal/service"
	"github.com/kirychukyurii/dr-dashboard/internal/view"
	"github.com/kirychukyurii/dr-dashboard/ui"
)

// dashboardData is passed to index.html
type dashboardData struct {
	Page     view.Page
	BasePath string
}

// confirmData is passed to confirm.html
type confirmData struct {
	Title    string
	Prompt   string
	BasePath string
}

// Dashboard handles GET /
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	page := view.Render(h.service.Snapshot()).WithNotice(h.notices.Pop())

	h.renderHTML(w, "index.html", dashboardData{
		Page:     page,
		BasePath: h.basePath,
	})
}

// ConfirmFailover handles GET /failover and asks the operator to confirm
func (h *Handler) ConfirmFailover(w http.ResponseWriter, r *http.Request) {
	if h.service.Busy() {
		h.notices.Notify(r.Context(), busyNotice)
		h.redirectHome(w, r)
		return
	}

	h.renderHTML(w, "confirm.html", confirmData{
		Title:    view.Title,
		Prompt:   service.FailoverPrompt,
		BasePath: h.basePath,
	})
}

// ServeStatic returns a handler that serves the embedded stylesheets
func (h *Handler) ServeStatic() http.Handler {
	fsys, err := ui.GetFileSystem()
	if err != nil {
		h.logger.Error("failed to get UI filesystem", "error", err.Error())
		return http.NotFoundHandler()
	}

	return http.StripPrefix(h.basePath+"/static/", http.FileServer(fsys))
}

// renderHTML executes a template into a buffer before writing the response
func (h *Handler) renderHTML(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request) {
	target := h.basePath + "/"
	http.Redirect(w, r, target, http.StatusSeeOther)
}
