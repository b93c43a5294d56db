package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/imagelens/internal/analysis"
	"github.com/lehigh-university-libraries/imagelens/internal/models"
)

// DefaultMaxUploadBytes caps multipart bodies when no limit is configured
const DefaultMaxUploadBytes = 10 * 1024 * 1024

type Handler struct {
	service        *analysis.Service
	maxUploadBytes int64
}

func New(service *analysis.Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError reports failures in the same shape as a successful answer
func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Warn("Request failed", "status", code, "message", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(models.AnalysisResponse{Response: message}); err != nil {
		slog.Error("Unable to encode error response", "err", err)
	}
}

func (h *Handler) writeResult(w http.ResponseWriter, resp *models.AnalysisResponse, err error) {
	if err != nil {
		h.writeError(w, models.Message(err), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, resp)
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
