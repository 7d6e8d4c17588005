package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-friends-birthday/internal/config"
	"github.com/tartampluch/go-friends-birthday/internal/engine"
	"github.com/tartampluch/go-friends-birthday/internal/server"
	"github.com/zalando/go-keyring"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the engine.VCardFetcher interface using testify/mock.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// MockTray implements minimal system tray functionality for headless testing.
type MockTray struct {
	Menu *fyne.Menu
}

func (m *MockTray) SetSystemTrayMenu(menu *fyne.Menu) {
	m.Menu = menu
}

func (m *MockTray) SetSystemTrayIcon(icon fyne.Resource) {}
func (m *MockTray) SetSystemTrayWindow(w fyne.Window)    {}

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

// newYear is the default test "now": Ivan's birthday.
var newYear = time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)

func seedRegistry() *engine.Registry {
	return engine.NewRegistry(
		engine.Friend{Name: "Ivan", Birthday: "01.01.2000"},
		engine.Friend{Name: "Petr", Birthday: "02.02.2000"},
		engine.Friend{Name: "Sergey", Birthday: "03.03.2000"},
	)
}

// setupTestApp initializes a headless app with the three sample friends and a built main window.
func setupTestApp(t *testing.T) (*FriendsApp, *MockFetcher, *MockTray) {
	keyring.MockInit()
	a := test.NewApp()

	srv := server.NewCalendarServer("0")
	fetcher := new(MockFetcher)
	mockTray := &MockTray{}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app := NewFriendsApp(a, ctx, seedRegistry(), srv, fetcher)
	app.Tray = mockTray
	app.Clock = MockClock{CurrentTime: newYear}

	app.Preferences.SetString(config.PrefLanguage, "en")
	app.SetupI18n()
	app.BuildMainWindow()
	app.render()

	return app, fetcher, mockTray
}

func names(r *engine.Registry) []string {
	var out []string
	for _, f := range r.List() {
		out = append(out, f.Name)
	}
	return out
}

func publishedFeed(t *testing.T, app *FriendsApp) string {
	t.Helper()
	w := httptest.NewRecorder()
	app.Server.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteCalendarFile, nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

// -----------------------------------------------------------------------------
// Main window & rendering
// -----------------------------------------------------------------------------

func TestMainWindow_ListsFriends(t *testing.T) {
	app, _, _ := setupTestApp(t)

	assert.Equal(t, 3, app.friendsList.Length())
	assert.False(t, app.emptyLabel.Visible())
	assert.Equal(t, "Add a friend", app.addButton.Text)
}

func TestRender_CallbackAfterEveryMutation(t *testing.T) {
	app, _, _ := setupTestApp(t)

	calls := 0
	app.OnRender = func() { calls++ }

	app.AddFriend(engine.Friend{Name: "Anna", Birthday: "10.05.1995"})
	app.UpdateFriend(0, engine.Friend{Name: "Ivan Petrov", Birthday: "01.01.2000"})
	app.RemoveFriend(1)
	assert.Equal(t, 3, calls)

	assert.Equal(t, []string{"Ivan Petrov", "Sergey", "Anna"}, names(app.Registry))
}

func TestRender_EmptyList(t *testing.T) {
	app, _, _ := setupTestApp(t)

	for app.Registry.Len() > 0 {
		require.True(t, app.RemoveFriend(0))
	}
	assert.True(t, app.emptyLabel.Visible())
	assert.Equal(t, 0, app.friendsList.Length())
}

func TestRender_PublishesCalendar(t *testing.T) {
	app, _, _ := setupTestApp(t)

	app.AddFriend(engine.Friend{Name: "Anna", Birthday: "10.05.1995"})
	feed := publishedFeed(t, app)
	assert.Contains(t, feed, "Birthday: Anna (30)")
	assert.Contains(t, feed, "Birthday: Ivan (25)")

	app.RemoveFriend(3)
	assert.NotContains(t, publishedFeed(t, app), "Anna")
}

func TestMutations_StaleIndexIgnored(t *testing.T) {
	app, _, _ := setupTestApp(t)

	calls := 0
	app.OnRender = func() { calls++ }

	assert.False(t, app.RemoveFriend(3))
	assert.False(t, app.UpdateFriend(-1, engine.Friend{Name: "X", Birthday: "01.01.2000"}))
	assert.Nil(t, app.ShowEditFriendDialog(7))
	assert.Nil(t, app.ShowActionDialog(7))

	assert.Equal(t, 0, calls)
	assert.Equal(t, []string{"Ivan", "Petr", "Sergey"}, names(app.Registry))
}

// -----------------------------------------------------------------------------
// Tray
// -----------------------------------------------------------------------------

func TestTrayStatusUpdate_Logic(t *testing.T) {
	app, _, mockTray := setupTestApp(t)
	app.setupTrayMenu()

	app.updateTrayStatus(-1)
	assert.Equal(t, config.FallbackTrayLabel, app.TrayStatusItem.Label)

	app.updateTrayStatus(0)
	assert.Equal(t, "No birthdays today", app.TrayStatusItem.Label)

	app.updateTrayStatus(1)
	assert.Equal(t, "1 birthday today", app.TrayStatusItem.Label)

	app.updateTrayStatus(10)
	assert.Equal(t, "10 birthdays today", app.TrayStatusItem.Label)

	assert.NotNil(t, mockTray.Menu)
}

func TestTrayStatus_FollowsRegistry(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.setupTrayMenu()

	app.render()
	assert.Equal(t, "1 birthday today", app.TrayStatusItem.Label)

	app.AddFriend(engine.Friend{Name: "Anna", Birthday: "01.01.1990"})
	assert.Equal(t, "2 birthdays today", app.TrayStatusItem.Label)

	app.RemoveFriend(0)
	app.RemoveFriend(2)
	assert.Equal(t, "No birthdays today", app.TrayStatusItem.Label)
}

// -----------------------------------------------------------------------------
// Localization
// -----------------------------------------------------------------------------

func TestLocalization_Switching(t *testing.T) {
	app, _, _ := setupTestApp(t)
	assert.ElementsMatch(t, []string{"en", "ru"}, app.SupportedLanguages)

	assert.Equal(t, "Add", app.GetMsg(config.TKeyBtnAdd))

	app.Preferences.SetString(config.PrefLanguage, "ru")
	app.UpdateLocalizer()
	assert.Equal(t, "Добавить", app.GetMsg(config.TKeyBtnAdd))

	app.relabel()
	assert.Equal(t, "Добавить друга", app.addButton.Text)
	assert.Equal(t, "Дни рождения друзей", app.MainWindow.Title())

	// Unknown languages fall back to English.
	app.Preferences.SetString(config.PrefLanguage, "xx")
	app.UpdateLocalizer()
	assert.Equal(t, "Add", app.GetMsg(config.TKeyBtnAdd))
}

func TestLocalization_RussianPlurals(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.Preferences.SetString(config.PrefLanguage, "ru")
	app.UpdateLocalizer()

	assert.Equal(t, "Сегодня 1 день рождения", app.trayLabel(1))
	assert.Equal(t, "Сегодня 3 дня рождения", app.trayLabel(3))
	assert.Equal(t, "Сегодня 5 дней рождения", app.trayLabel(5))
	assert.Equal(t, "Сегодня дней рождения нет", app.trayLabel(0))
}

func TestLocalization_MissingKey(t *testing.T) {
	app, _, _ := setupTestApp(t)
	assert.Equal(t, "no_such_key", app.GetMsg("no_such_key"))

	app.Localizer = nil
	assert.Equal(t, config.TKeyBtnAdd, app.GetMsg(config.TKeyBtnAdd))
	assert.Equal(t, "Birthday: Anna (3)", app.buildSummaryFormatter()("Anna", 3))
}

func TestLocalization_SummaryFormatter(t *testing.T) {
	app, _, _ := setupTestApp(t)
	formatter := app.buildSummaryFormatter()

	assert.Equal(t, "Birthday: Alice (30)", formatter("Alice", 30))
	assert.Equal(t, "Birthday: Baby (birth)", formatter("Baby", 0))

	app.Preferences.SetString(config.PrefLanguage, "ru")
	app.UpdateLocalizer()
	assert.Equal(t, "День рождения: Alice (30)", formatter("Alice", 30))
}

// -----------------------------------------------------------------------------
// Import
// -----------------------------------------------------------------------------

const importBook = "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Anna Smirnova\r\nBDAY:1990-05-10\r\nEND:VCARD\r\n" +
	"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:No Birthday\r\nEND:VCARD\r\n"

func TestImportConfig_Mapping(t *testing.T) {
	app, _, _ := setupTestApp(t)

	cfg := app.loadImportConfig()
	assert.Equal(t, config.SourceModeWeb, cfg.Mode, "Web is the default source")

	app.Preferences.SetString(config.PrefSourceMode, config.SourceModeLocal)
	app.Preferences.SetString(config.PrefLocalPath, "/tmp/friends.vcf")
	app.Preferences.SetString(config.PrefImportURL, "https://dav.example.com/book")
	app.Preferences.SetString(config.PrefUsername, "admin")
	require.NoError(t, keyring.Set(config.KeyringService, "admin", "s3cret"))

	cfg = app.loadImportConfig()
	assert.Equal(t, config.SourceModeLocal, cfg.Mode)
	assert.Equal(t, "/tmp/friends.vcf", cfg.LocalPath)
	assert.Equal(t, "https://dav.example.com/book", cfg.WebURL)
	assert.Equal(t, "admin", cfg.WebUser)
	assert.Equal(t, "s3cret", cfg.WebPass)
}

func TestPerformImport_Success(t *testing.T) {
	app, fetcher, _ := setupTestApp(t)

	app.Preferences.SetString(config.PrefSourceMode, config.SourceModeWeb)
	app.Preferences.SetString(config.PrefImportURL, "http://test.local/book.vcf")

	fetcher.On("Fetch", mock.Anything, "http://test.local/book.vcf", "", "").
		Return(io.NopCloser(bytes.NewBufferString(importBook)), nil)

	app.performImport()

	fetcher.AssertExpectations(t)
	require.Equal(t, 4, app.Registry.Len())
	last, err := app.Registry.At(3)
	require.NoError(t, err)
	assert.Equal(t, engine.Friend{Name: "Anna Smirnova", Birthday: "10.05.1990"}, last)
	assert.Contains(t, publishedFeed(t, app), "Anna Smirnova")
}

func TestPerformImport_Failure(t *testing.T) {
	app, fetcher, _ := setupTestApp(t)

	app.Preferences.SetString(config.PrefImportURL, "http://test.local/book.vcf")
	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	app.performImport()

	fetcher.AssertExpectations(t)
	assert.Equal(t, []string{"Ivan", "Petr", "Sergey"}, names(app.Registry))
}

// -----------------------------------------------------------------------------
// Settings
// -----------------------------------------------------------------------------

func TestSettings_ValidatePort(t *testing.T) {
	app, _, _ := setupTestApp(t)

	tests := []struct {
		input   string
		wantErr string
	}{
		{"18081", ""},
		{"1", ""},
		{"65535", ""},
		{"", "Port is required"},
		{"abc", "Port must be a number"},
		{"0", "Port must be between 1 and 65535"},
		{"70000", "Port must be between 1 and 65535"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := app.validatePort(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestSettings_WindowSingleton(t *testing.T) {
	app, _, _ := setupTestApp(t)

	app.ShowSettingsWindow()
	first := app.settingsWindow
	require.NotNil(t, first)

	app.ShowSettingsWindow()
	assert.Same(t, first, app.settingsWindow)

	first.Close()
	assert.Nil(t, app.settingsWindow)
}

func TestSettings_Save(t *testing.T) {
	app, _, _ := setupTestApp(t)

	sw := &settingsWidgets{
		langSelect: widget.NewSelect([]string{"en", "ru"}, nil),
		modeSelect: widget.NewSelect([]string{app.GetMsg(config.TKeyModeCardDAV), app.GetMsg(config.TKeyModeLocal)}, nil),
		urlEntry:   widget.NewEntry(),
		userEntry:  widget.NewEntry(),
		passEntry:  widget.NewPasswordEntry(),
		pathEntry:  widget.NewEntry(),
		entryPort:  NewNumericalEntry(config.PortMaxDigits),
	}
	sw.langSelect.SetSelected("ru")
	sw.modeSelect.SetSelected(app.GetMsg(config.TKeyModeLocal))
	sw.urlEntry.SetText("https://dav.example.com")
	sw.userEntry.SetText("bob")
	sw.passEntry.SetText("pw")
	sw.pathEntry.SetText("/home/bob/friends.vcf")
	sw.entryPort.SetText("19000")

	app.saveSettings(sw, test.NewWindow(nil))

	assert.Equal(t, "ru", app.Preferences.String(config.PrefLanguage))
	assert.Equal(t, config.SourceModeLocal, app.Preferences.String(config.PrefSourceMode))
	assert.Equal(t, "/home/bob/friends.vcf", app.Preferences.String(config.PrefLocalPath))
	assert.Equal(t, "19000", app.Preferences.String(config.PrefServerPort))

	pwd, err := keyring.Get(config.KeyringService, "bob")
	require.NoError(t, err)
	assert.Equal(t, "pw", pwd)

	assert.Equal(t, "Добавить друга", app.addButton.Text, "Saving relabels the main window")
}

func TestSettings_FeedURL(t *testing.T) {
	app, _, _ := setupTestApp(t)
	assert.Equal(t, "http://localhost:0/friends.ics", app.feedURL())
}
