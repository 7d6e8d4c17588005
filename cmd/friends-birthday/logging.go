package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tartampluch/go-friends-birthday/internal/config"
)

// setupLogging makes a JSON logger on stdout plus <user cache>/<app id>/app.log the default.
// The returned closer is nil when no log file could be opened.
func setupLogging(debug bool) io.Closer {
	var out io.Writer = os.Stdout
	var closer io.Closer

	if cacheDir, err := os.UserCacheDir(); err != nil {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrCacheDir, "", err)
	} else if f, err := openLogFile(cacheDir); err != nil {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, cacheDir, err)
	} else {
		out = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	slog.SetDefault(newLogger(out, debug))
	return closer
}

// newLogger returns a JSON logger; debug lowers the level and adds source positions.
func newLogger(out io.Writer, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

// openLogFile truncates or creates the app log under root, owner-only.
func openLogFile(root string) (*os.File, error) {
	dir := filepath.Join(root, config.AppID)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return os.OpenFile(filepath.Join(dir, config.LogFileName), os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
}
