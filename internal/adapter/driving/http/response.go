package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/binvault/internal/domain/model"
)

const missingFieldsMessage = "Missing fields: title and content required"

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// CreateBinRequest is the JSON body for POST /api/bins.
type CreateBinRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r CreateBinRequest) toNewBin() model.NewBin {
	return model.NewBin{Title: r.Title, Content: r.Content}
}

// BinResponse is the JSON representation of a bin.
type BinResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// HealthResponse is the JSON body for GET /api/health.
type HealthResponse struct {
	Status           string `json:"status"`
	Time             string `json:"time"`
	Backend          string `json:"backend"`
	RemoteConfigured bool   `json:"remote_configured"`
}

func toBinResponse(b model.Bin) BinResponse {
	return BinResponse{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		CreatedAt: b.CreatedAt.UTC().Format(model.TimestampLayout),
	}
}

