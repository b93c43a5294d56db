package handlers

import (
	"net/http"

	"github.com/lehigh-university-libraries/imagelens/internal/models"
)

// HandleFromLibrary analyzes one image from the bundled image library
func (h *Handler) HandleFromLibrary(w http.ResponseWriter, r *http.Request) {
	var request models.URLAnalysisRequest
	if !h.decodeJSON(w, r, &request) {
		return
	}

	resp, err := h.service.AnalyzeFromLibrary(r.Context(), request.FileName, request.Prompt)
	h.writeResult(w, resp, err)
}

func (h *Handler) HandleFromURLs(w http.ResponseWriter, r *http.Request) {
	var request models.URLAnalysisRequest
	if !h.decodeJSON(w, r, &request) {
		return
	}

	resp, err := h.service.AnalyzeURLs(r.Context(), request.ImageURLs, request.Prompt)
	h.writeResult(w, resp, err)
}

func (h *Handler) HandleFromBase64(w http.ResponseWriter, r *http.Request) {
	var request models.Base64AnalysisRequest
	if !h.decodeJSON(w, r, &request) {
		return
	}

	resp, err := h.service.AnalyzeBase64(r.Context(), request.Images, request.Prompt)
	h.writeResult(w, resp, err)
}
