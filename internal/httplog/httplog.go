package httplog

import (
	"log/slog"
	"net/http"
	"time"
)

// Transport logs every outbound request and its outcome
type Transport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// NewTransport wraps base, falling back to http.DefaultTransport
func NewTransport(base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base}
}

// NewClient returns an http.Client whose requests are logged
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(nil),
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	resp, err := t.Base.RoundTrip(req)
	elapsed := time.Since(start)

	// strip credentials and query strings, API keys travel there for some providers
	target := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
	if err != nil {
		logger.Warn("Outbound request failed", "method", req.Method, "url", target, "duration", elapsed, "err", err)
		return nil, err
	}

	logger.Debug("Outbound request",
		"method", req.Method,
		"url", target,
		"status", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"),
		"duration", elapsed)
	return resp, nil
}
