package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-friends-birthday/internal/config"
	"github.com/tartampluch/go-friends-birthday/internal/engine"
	"github.com/tartampluch/go-friends-birthday/internal/server"
)

// FriendsApp is the application object: the friends registry plus everything
// that has to be redrawn when it changes.
type FriendsApp struct {
	App         fyne.App
	MainWindow  fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Registry *engine.Registry
	Server   *server.CalendarServer
	Importer *engine.Importer
	Clock    engine.Clock // Injected clock for testability

	// OnRender runs after every registry mutation, once the views are refreshed.
	OnRender func()

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayImportItem   *fyne.MenuItem
	TrayUpcomingItem *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string

	// Main window widgets
	friendsList *widget.List
	addButton   *widget.Button
	emptyLabel  *widget.Label
	statusLabel *widget.Label

	settingsWindow  fyne.Window
	upcomingWindow  fyne.Window
	refreshUpcoming func()
}

// NewFriendsApp constructs the application and wires dependencies.
func NewFriendsApp(a fyne.App, ctx context.Context, registry *engine.Registry, srv *server.CalendarServer, fetcher engine.VCardFetcher) *FriendsApp {
	a.SetIcon(theme.AccountIcon())

	return &FriendsApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Registry:           registry,
		Server:             srv,
		Importer:           &engine.Importer{Fetcher: fetcher},
		Clock:              engine.SystemClock{},
		SupportedLanguages: config.SupportedLanguages,
	}
}

// Run launches the calendar feed and the main window, blocking until the app quits.
func (app *FriendsApp) Run() {
	app.SetupI18n()
	app.watchPreferences()

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupport, config.LogKeyComponent, config.CompUI)
	}

	app.BuildMainWindow()
	app.render()
	app.MainWindow.ShowAndRun()
}

// watchPreferences relabels the UI when the language changes.
func (app *FriendsApp) watchPreferences() {
	lang := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	app.Preferences.AddChangeListener(func() {
		current := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
		if current == lang {
			return
		}
		lang = current
		fyne.Do(app.relabel)
	})
}

// BuildMainWindow creates the list window. It is safe to call once per app.
func (app *FriendsApp) BuildMainWindow() fyne.Window {
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinMain))
	app.MainWindow = w

	app.friendsList = widget.NewList(
		func() int {
			return app.Registry.Len()
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			f, err := app.Registry.At(id)
			if err != nil {
				return
			}
			o.(*widget.Label).SetText(f.String())
		},
	)
	app.friendsList.OnSelected = func(id widget.ListItemID) {
		// Selection is only a tap gesture here; the list keeps no highlighted row.
		app.friendsList.UnselectAll()
		app.ShowActionDialog(id)
	}

	app.addButton = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnAddFriend), theme.ContentAddIcon(), func() {
		app.ShowAddFriendDialog()
	})
	app.addButton.Importance = widget.HighImportance

	app.emptyLabel = widget.NewLabel(app.GetMsg(config.TKeyListEmpty))
	app.emptyLabel.Alignment = fyne.TextAlignCenter

	app.statusLabel = widget.NewLabel("")
	app.statusLabel.Alignment = fyne.TextAlignCenter
	app.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewBorder(
		container.NewPadded(app.addButton),
		app.statusLabel,
		nil, nil,
		container.NewStack(app.friendsList, app.emptyLabel),
	)

	w.SetContent(content)
	w.SetMainMenu(app.buildMainMenu())
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
	w.SetMaster()
	return w
}

// buildMainMenu returns the localized menu bar. Fyne appends Quit to the first menu.
func (app *FriendsApp) buildMainMenu() *fyne.MainMenu {
	return fyne.NewMainMenu(fyne.NewMenu(app.GetMsg(config.TKeyMenuFile),
		fyne.NewMenuItem(app.GetMsg(config.TKeyMenuImport), func() { go app.performImport() }),
		fyne.NewMenuItem(app.GetMsg(config.TKeyMenuUpcoming), app.ShowUpcomingWindow),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), app.ShowSettingsWindow),
	))
}

// relabel reapplies translations to the long-lived widgets.
func (app *FriendsApp) relabel() {
	if app.MainWindow != nil {
		app.MainWindow.SetTitle(app.GetMsg(config.TKeyWinMain))
		app.MainWindow.SetMainMenu(app.buildMainMenu())
		app.addButton.SetText(app.GetMsg(config.TKeyBtnAddFriend))
		app.emptyLabel.SetText(app.GetMsg(config.TKeyListEmpty))
	}
	app.RefreshTrayMenu()
	app.render()
}

// -----------------------------------------------------------------------------
// Registry mutations
// -----------------------------------------------------------------------------

// AddFriend appends a validated friend and re-renders.
func (app *FriendsApp) AddFriend(f engine.Friend) {
	app.Registry.Add(f)
	slog.Info(config.MsgFriendAdded,
		config.LogKeyComponent, config.CompRegistry,
		config.LogKeyIndex, app.Registry.Len()-1)
	app.render()
}

// UpdateFriend replaces the friend at index and re-renders.
// It reports false for an index the registry does not hold.
func (app *FriendsApp) UpdateFriend(index int, f engine.Friend) bool {
	if err := app.Registry.Update(index, f); err != nil {
		app.logRejected(err, index)
		return false
	}
	slog.Info(config.MsgFriendUpdated,
		config.LogKeyComponent, config.CompRegistry,
		config.LogKeyIndex, index)
	app.render()
	return true
}

// RemoveFriend deletes the friend at index and re-renders.
func (app *FriendsApp) RemoveFriend(index int) bool {
	if err := app.Registry.Remove(index); err != nil {
		app.logRejected(err, index)
		return false
	}
	slog.Info(config.MsgFriendRemoved,
		config.LogKeyComponent, config.CompRegistry,
		config.LogKeyIndex, index)
	app.render()
	return true
}

// ImportFriends appends a batch of friends with a single re-render.
func (app *FriendsApp) ImportFriends(friends []engine.Friend) {
	for _, f := range friends {
		app.Registry.Add(f)
	}
	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompRegistry,
		config.LogKeyImported, len(friends))
	app.render()
}

// logRejected records an index that did not come from the current list.
func (app *FriendsApp) logRejected(err error, index int) {
	slog.Error(config.ErrRegistryOp,
		config.LogKeyComponent, config.CompRegistry,
		config.LogKeyIndex, index,
		config.LogKeyError, err)
}

// render redraws every view of the registry and republishes the calendar feed.
func (app *FriendsApp) render() {
	if app.friendsList != nil {
		app.friendsList.Refresh()
		if app.Registry.Len() == 0 {
			app.emptyLabel.Show()
		} else {
			app.emptyLabel.Hide()
		}
	}
	if app.refreshUpcoming != nil {
		app.refreshUpcoming()
	}

	app.updateTrayStatus(app.publishCalendar())

	if app.OnRender != nil {
		app.OnRender()
	}
}

// publishCalendar renders the feed and hands it to the server.
// It returns today's birthday count, or -1 if rendering failed.
func (app *FriendsApp) publishCalendar() int {
	builder := &engine.CalendarBuilder{
		Clock:         app.Clock,
		FormatSummary: app.buildSummaryFormatter(),
	}

	data, today, err := builder.Build(app.Ctx, app.Registry.List())
	if err != nil {
		slog.Error(config.ErrICalEncode, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		return -1
	}

	if app.Server != nil {
		app.Server.Update(data)
	}
	return today
}

// notify shows a transient notice under the list.
func (app *FriendsApp) notify(msg string) {
	if app.statusLabel == nil {
		return
	}
	app.statusLabel.SetText(msg)
	time.AfterFunc(config.NoticeDuration, func() {
		fyne.Do(func() {
			if app.statusLabel.Text == msg {
				app.statusLabel.SetText("")
			}
		})
	})
}

// -----------------------------------------------------------------------------
// Tray
// -----------------------------------------------------------------------------

// setupTrayMenu constructs the system tray menu.
func (app *FriendsApp) setupTrayMenu() {
	// The status line doubles as a shortcut back to the main window.
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, func() {
		if app.MainWindow != nil {
			app.MainWindow.Show()
			app.MainWindow.RequestFocus()
		}
	})

	app.TrayImportItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuImport), func() {
		go app.performImport()
	})
	app.TrayUpcomingItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuUpcoming), func() {
		app.ShowUpcomingWindow()
	})
	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayImportItem,
		app.TrayUpcomingItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *FriendsApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayImportItem.Label = app.GetMsg(config.TKeyMenuImport)
	app.TrayUpcomingItem.Label = app.GetMsg(config.TKeyMenuUpcoming)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.Menu.Refresh()
}

// updateTrayStatus shows how many birthdays are today.
func (app *FriendsApp) updateTrayStatus(count int) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	app.TrayStatusItem.Label = app.trayLabel(count)
	app.Menu.Refresh()
}

func (app *FriendsApp) trayLabel(count int) string {
	switch {
	case count < 0:
		return config.FallbackTrayLabel
	case count == 0:
		if label := app.GetMsg(config.TKeyTrayStatusZero); label != config.TKeyTrayStatusZero {
			return label
		}
	default:
		label := app.GetMsgWith(config.TKeyTrayStatus, map[string]interface{}{"Count": count}, count)
		if label != config.TKeyTrayStatus {
			return label
		}
	}
	return fmt.Sprintf(config.FallbackTrayDefault, count)
}

// buildSummaryFormatter returns a closure that localizes the event summary.
func (app *FriendsApp) buildSummaryFormatter() func(name string, age int) string {
	return func(name string, age int) string {
		data := map[string]interface{}{"Name": name, "Age": age}

		if age == 0 {
			if msg := app.GetMsgWith(config.TKeyEvtSummaryBirth, data, nil); msg != config.TKeyEvtSummaryBirth {
				return msg
			}
			return fmt.Sprintf(config.FallbackSummaryBirth, name)
		}

		if msg := app.GetMsgWith(config.TKeyEvtSummaryAge, data, nil); msg != config.TKeyEvtSummaryAge {
			return msg
		}
		return fmt.Sprintf(config.FallbackSummaryAge, name, age)
	}
}
