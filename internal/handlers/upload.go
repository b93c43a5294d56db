package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/lehigh-university-libraries/imagelens/internal/media"
)

// HandleFromFiles analyzes images sent as repeated "images" multipart parts
func (h *Handler) HandleFromFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	uploads, err := readUploads(r.MultipartForm.File["images"])
	if err != nil {
		h.writeError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.AnalyzeUploads(r.Context(), uploads, r.FormValue("prompt"))
	h.writeResult(w, resp, err)
}

func readUploads(headers []*multipart.FileHeader) ([]media.Upload, error) {
	uploads := make([]media.Upload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", header.Filename, err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
		}

		uploads = append(uploads, media.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}
