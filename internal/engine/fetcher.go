package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-friends-birthday/internal/config"
)

// ErrHTTPStatus is returned when the address book server answers with anything but 200.
var ErrHTTPStatus = errors.New(config.ErrHTTPStatus)

// VCardFetcher retrieves a remote address book for import.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher downloads address books over HTTP(S) with optional Basic auth.
type HTTPFetcher struct {
	Client *http.Client

	// MaxBytes caps how much of a body is read. Zero means config.MaxHTTPResponseSize.
	MaxBytes int64
}

// NewHTTPFetcher returns a fetcher with the default timeout and size cap.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:   &http.Client{Timeout: config.HTTPTimeout},
		MaxBytes: config.MaxHTTPResponseSize,
	}
}

// Fetch opens targetURL. The caller closes the returned body.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := checkSourceURL(targetURL)
	if err != nil {
		return nil, err
	}

	// Query strings may carry tokens; keep them out of the logs.
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.Debug(config.MsgFetchStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrHTTPRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrHTTPNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchRejected, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	log.Info(config.MsgFetchAccepted, slog.Int64(config.LogKeyLength, resp.ContentLength))

	limit := f.MaxBytes
	if limit <= 0 {
		limit = config.MaxHTTPResponseSize
	}
	return cappedBody{Reader: io.LimitReader(resp.Body, limit), Closer: resp.Body}, nil
}

// checkSourceURL accepts absolute http and https URLs only.
func checkSourceURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	switch u.Scheme {
	case config.SchemeHTTP, config.SchemeHTTPS:
		return u, nil
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrProtocol, u.Scheme)
	}
}

// cappedBody reads through a LimitReader but closes the real response body.
type cappedBody struct {
	io.Reader
	io.Closer
}
