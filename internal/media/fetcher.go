package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/lehigh-university-libraries/imagelens/internal/httplog"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 5 * time.Second
	DefaultMaxImageBytes  = 20 * 1024 * 1024
)

// Fetcher retrieves images from remote URLs
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
	// ReadTimeout bounds each wait for body data during FetchBytes.
	// Zero disables the check.
	ReadTimeout time.Duration
}

// NewFetcher creates a fetcher that gives up when connecting takes longer
// than connectTimeout or the server takes longer than readTimeout to answer.
func NewFetcher(connectTimeout, readTimeout time.Duration) *Fetcher {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}
	return &Fetcher{
		HTTPClient:  &http.Client{Transport: httplog.NewTransport(transport)},
		MaxBytes:    DefaultMaxImageBytes,
		ReadTimeout: readTimeout,
	}
}

// ContentType requests rawURL and returns the Content-Type the server reports.
// The status code is not inspected.
func (f *Fetcher) ContentType(ctx context.Context, rawURL string) (string, error) {
	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return resp.Header.Get("Content-Type"), nil
}

// FetchBytes downloads the image at rawURL
func (f *Fetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	slog.Info("Downloading image from URL", "url", rawURL)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxImageBytes
	}
	var body io.Reader = resp.Body
	var idle *idleReader
	if f.ReadTimeout > 0 {
		idle = newIdleReader(resp.Body, f.ReadTimeout, cancel)
		defer idle.stop()
		body = idle
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		if idle != nil && idle.expired.Load() {
			return nil, fmt.Errorf("image read timed out after %s", f.ReadTimeout)
		}
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image too large (max %d bytes)", limit)
	}

	return data, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	u, err := parseImageURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	return resp, nil
}

func parseImageURL(rawURL string) (*url.URL, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL has no host")
	}
	return u, nil
}

// idleReader cancels the request when no body data arrives within timeout.
// The clock restarts after every read that makes progress.
type idleReader struct {
	r       io.Reader
	timeout time.Duration
	timer   *time.Timer
	expired atomic.Bool
}

func newIdleReader(r io.Reader, timeout time.Duration, cancel context.CancelFunc) *idleReader {
	ir := &idleReader{r: r, timeout: timeout}
	ir.timer = time.AfterFunc(timeout, func() {
		ir.expired.Store(true)
		cancel()
	})
	return ir
}

func (ir *idleReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	if n > 0 && !ir.expired.Load() {
		ir.timer.Reset(ir.timeout)
	}
	return n, err
}

func (ir *idleReader) stop() {
	ir.timer.Stop()
}
