// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/binvault/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/binvault/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/binvault/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/binvault/internal/application"
)

const siteTitle = "binvault"

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	binSvc *application.BinService
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(binSvc *application.BinService, logger *slog.Logger) *Handler {
	return &Handler{
		binSvc: binSvc,
		logger: logger,
	}
}

// Index renders the bin list page. A store failure still renders the page
// with an empty list; app.js reports the error when it refetches.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	data := vm.IndexViewModel{Backend: h.binSvc.Backend()}

	bins, err := h.binSvc.ListBins(r.Context())
	if err != nil {
		h.logger.Warn("failed to list bins for index page", "error", err)
	} else {
		data.Bins = toBinCardViewModels(bins)
	}

	h.render(w, r, http.StatusOK, templates.Layout(siteTitle, pages.Index(data)))
}

// ShowBin renders a single bin with its content as markdown.
func (h *Handler) ShowBin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	bin, err := h.binSvc.GetBin(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get bin", "id", id, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if bin == nil {
		h.render(w, r, http.StatusNotFound, templates.Layout("Bin not found - "+siteTitle, pages.NotFound(id)))
		return
	}

	detail := toBinDetailViewModel(*bin)
	h.render(w, r, http.StatusOK, templates.Layout(detail.Title+" - "+siteTitle, pages.BinDetail(detail)))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := component.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}
