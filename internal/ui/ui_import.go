package ui

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-friends-birthday/internal/config"
	"github.com/tartampluch/go-friends-birthday/internal/engine"
	"github.com/zalando/go-keyring"
)

// loadImportConfig assembles the import source from preferences and the keyring.
func (app *FriendsApp) loadImportConfig() engine.ImportConfig {
	cfg := engine.ImportConfig{
		Mode:      app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeWeb),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		WebURL:    app.Preferences.String(config.PrefImportURL),
		WebUser:   app.Preferences.String(config.PrefUsername),
	}

	if cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}
	return cfg
}

// performImport reads the configured address book and appends its friends.
// It blocks on I/O, so callers run it off the UI goroutine; the registry is
// only touched through fyne.Do.
func (app *FriendsApp) performImport() {
	slog.Info(config.MsgImportReq, config.LogKeyComponent, config.CompUI)
	app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifImportStart)))

	res, err := app.Importer.Import(app.Ctx, app.loadImportConfig())
	if err != nil {
		slog.Error(config.MsgImportFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		app.App.SendNotification(fyne.NewNotification(config.TitleImportError, app.GetMsg(config.TKeyNotifImportError)))
		return
	}

	fyne.Do(func() {
		app.ImportFriends(res.Friends)
	})

	msg := app.GetMsgWith(config.TKeyNotifImportSuccess, map[string]interface{}{
		"Count":   len(res.Friends),
		"Skipped": res.Skipped,
	}, nil)
	if msg == config.TKeyNotifImportSuccess {
		msg = fmt.Sprintf(config.FallbackImportDone, len(res.Friends), res.Skipped)
	}
	app.App.SendNotification(fyne.NewNotification(config.AppName, msg))
}
