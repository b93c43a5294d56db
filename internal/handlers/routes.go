package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/imagelens/internal/config"
)

// Routes registers every endpoint under basePath and wraps the mux with
// request logging.
func (h *Handler) Routes(basePath string) http.Handler {
	basePath = strings.TrimRight(basePath, "/")
	if basePath == "" {
		basePath = config.DefaultBasePath
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+basePath+"/from-classpath", h.HandleFromLibrary)
	mux.HandleFunc("POST "+basePath+"/from-files", h.HandleFromFiles)
	mux.HandleFunc("POST "+basePath+"/from-urls", h.HandleFromURLs)
	mux.HandleFunc("POST "+basePath+"/from-base64", h.HandleFromBase64)
	mux.HandleFunc("GET /healthcheck", h.HandleHealthcheck)

	return LogRequests(mux)
}

func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LogRequests tags every request with an ID, echoes it in X-Request-ID and
// logs the outcome.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		slog.Info("Handled request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
