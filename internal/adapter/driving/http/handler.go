// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/binvault/internal/application"
	"github.com/ericfisherdev/binvault/internal/domain/model"
)

// maxRequestBody caps POST /api/bins bodies.
const maxRequestBody = 1 << 20

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	binSvc   *application.BinService
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// NewHandler creates a Handler. gatherer may be nil, in which case /metrics
// is not registered.
func NewHandler(binSvc *application.BinService, gatherer prometheus.Gatherer, logger *slog.Logger) *Handler {
	return &Handler{
		binSvc:   binSvc,
		gatherer: gatherer,
		logger:   logger,
	}
}

// RegisterAPIRoutes registers the JSON API routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	// Method dispatch happens in Bins so unsupported methods get a JSON 405.
	mux.HandleFunc("/api/bins", h.Bins)
	mux.HandleFunc("GET /api/bins/{id}", h.GetBin)
	mux.HandleFunc("GET /api/health", h.Health)

	if h.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with the standard middleware chain.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// Bins dispatches /api/bins by method: GET lists, POST creates, anything else
// is rejected with 405.
func (h *Handler) Bins(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.ListBins(w, r)
	case http.MethodPost:
		h.CreateBin(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// ListBins returns every stored bin in insertion order.
func (h *Handler) ListBins(w http.ResponseWriter, r *http.Request) {
	bins, err := h.binSvc.ListBins(r.Context())
	if err != nil {
		h.logger.Error("failed to list bins", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := make([]BinResponse, 0, len(bins))
	for _, b := range bins {
		resp = append(resp, toBinResponse(b))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateBin validates the request and stores a new bin.
func (h *Handler) CreateBin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req CreateBinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := req.toNewBin()
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, missingFieldsMessage)
		return
	}

	bin, err := h.binSvc.CreateBin(r.Context(), input)
	if err != nil {
		if errors.Is(err, model.ErrInvalidBin) {
			writeError(w, http.StatusBadRequest, missingFieldsMessage)
			return
		}
		h.logger.Error("failed to create bin", "backend", h.binSvc.Backend(), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toBinResponse(bin))
}

// GetBin returns a single bin by ID.
func (h *Handler) GetBin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	bin, err := h.binSvc.GetBin(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get bin", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if bin == nil {
		writeError(w, http.StatusNotFound, "bin not found")
		return
	}

	writeJSON(w, http.StatusOK, toBinResponse(*bin))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:           "ok",
		Time:             time.Now().UTC().Format(time.RFC3339),
		Backend:          h.binSvc.Backend(),
		RemoteConfigured: h.binSvc.RemoteConfigured(),
	})
}
