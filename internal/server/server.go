package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/tartampluch/go-friends-birthday/internal/config"
)

// snapshot is one published rendering of the friends calendar.
type snapshot struct {
	body    []byte
	etag    string
	modTime time.Time
}

// CalendarServer publishes the friends list as an ICS feed on localhost.
type CalendarServer struct {
	Port string

	// current is swapped whole on every publish, so handlers never observe a partial snapshot.
	current atomic.Pointer[snapshot]
}

// NewCalendarServer returns a server for the given port. Nothing is bound until Start.
func NewCalendarServer(port string) *CalendarServer {
	return &CalendarServer{Port: port}
}

// Router exposes the feed on "/" and "/friends.ics" for GET and HEAD.
func (s *CalendarServer) Router() http.Handler {
	r := mux.NewRouter()
	for _, route := range []string{config.RouteRoot, config.RouteCalendarFile} {
		r.HandleFunc(route, s.serveFeed).Methods(http.MethodGet, http.MethodHead)
	}
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	})
	return r
}

// Start binds the loopback port and serves until ctx is cancelled.
// Bind failures are returned right away.
func (s *CalendarServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	ln, err := net.Listen(config.NetworkTCP, net.JoinHostPort(config.LocalhostBindAddr, s.Port))
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}

	srv := &http.Server{
		Handler:      s.Router(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	slog.Info(config.MsgServerListen,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyPort, ln.Addr().String(),
	)

	failed := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	case <-ctx.Done():
	}

	slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
	stopCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
	}
	return nil
}

// Update publishes a new rendering. Identical bytes keep the previous
// modification time so Last-Modified only moves when the feed changes.
func (s *CalendarServer) Update(data []byte) {
	sum := sha256.Sum256(data)
	snap := &snapshot{
		body:    data,
		etag:    fmt.Sprintf(config.FormatETag, hex.EncodeToString(sum[:])),
		modTime: time.Now().UTC(),
	}
	if prev := s.current.Load(); prev != nil && prev.etag == snap.etag {
		snap.modTime = prev.modTime
	}
	s.current.Store(snap)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, snap.etag,
	)
}

// serveFeed answers with the latest snapshot, or 503 until the first publish.
// Conditional requests and HEAD are handled by http.ServeContent.
func (s *CalendarServer) serveFeed(w http.ResponseWriter, r *http.Request) {
	snap := s.current.Load()
	if snap == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	h := w.Header()
	h.Set(config.HeaderContentType, config.MimeTextCalendar)
	h.Set(config.HeaderXContentType, config.MimeNoSniff)
	h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
	h.Set(config.HeaderETag, snap.etag)

	http.ServeContent(w, r, "", snap.modTime, bytes.NewReader(snap.body))
}
