package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-friends-birthday/internal/config"
	"github.com/tartampluch/go-friends-birthday/internal/engine"
	"github.com/tartampluch/go-friends-birthday/internal/server"
	"github.com/tartampluch/go-friends-birthday/internal/ui"
)

// main delegates to runMain so deferred calls (log file close) run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain parses flags, sets up logging and returns the process exit code.
func runMain() int {
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	importPath := flag.String(config.FlagImport, "", config.FlagDescImport)
	empty := flag.Bool(config.FlagEmpty, false, config.FlagDescEmpty)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	// Cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	registry, err := loadRegistry(ctx, *importPath, *empty)
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	if err := run(ctx, registry); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// loadRegistry builds the startup friends list: a vCard file, nothing, or the sample friends.
func loadRegistry(ctx context.Context, importPath string, empty bool) (*engine.Registry, error) {
	switch {
	case importPath != "":
		im := &engine.Importer{}
		res, err := im.Import(ctx, engine.ImportConfig{
			Mode:      config.SourceModeLocal,
			LocalPath: importPath,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrStartupImport, err)
		}
		slog.Info(config.MsgRegistrySeeded,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyFile, importPath,
			config.LogKeyFriends, len(res.Friends),
			config.LogKeySkipped, res.Skipped)
		return engine.NewRegistry(res.Friends...), nil

	case empty:
		return engine.NewRegistry(), nil

	default:
		seed := make([]engine.Friend, 0, len(config.SeedFriends))
		for _, s := range config.SeedFriends {
			seed = append(seed, engine.Friend{Name: s.Name, Birthday: s.Birthday})
		}
		slog.Debug(config.MsgRegistrySeeded,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyFriends, len(seed))
		return engine.NewRegistry(seed...), nil
	}
}

// run wires the dependencies and blocks in the UI loop.
func run(ctx context.Context, registry *engine.Registry) error {
	a := app.NewWithID(config.AppID)
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	port := a.Preferences().StringWithFallback(config.PrefServerPort, config.DefaultPort)
	srv := server.NewCalendarServer(port)
	fetcher := engine.NewHTTPFetcher()

	gui := ui.NewFriendsApp(a, ctx, registry, srv, fetcher)

	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	gui.Run()

	return nil
}

func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuildDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}
