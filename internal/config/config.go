package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for vCard imports.
var UserAgent = "Friends-Birthday/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Friends Birthday"
	AppID             = "com.github.tartampluch.go-friends-birthday"
	KeyringService    = "com.github.tartampluch.go-friends-birthday"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagImport       = "import"
	FlagEmpty        = "empty"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescImport   = "Import friends from a vCard file at startup instead of the sample list"
	FlagDescEmpty    = "Start with an empty friends list"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Seed Data
// -----------------------------------------------------------------------------

// SeedFriend is a name/birthday pair loaded into the registry at startup.
type SeedFriend struct {
	Name     string
	Birthday string
}

// SeedFriends is the sample list shown on a fresh start.
var SeedFriends = []SeedFriend{
	{Name: "Ivan", Birthday: "01.01.2000"},
	{Name: "Petr", Birthday: "02.02.2000"},
	{Name: "Sergey", Birthday: "03.03.2000"},
}

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	MainWindowWidth     = 420
	MainWindowHeight    = 560
	EntryDialogWidth    = 360
	SettingsWindowWidth = 600

	// Preference Keys
	PrefLanguage   = "language"
	PrefServerPort = "server_port"
	PrefSourceMode = "import_source_mode"
	PrefImportURL  = "import_url"
	PrefUsername   = "import_username"
	PrefLocalPath  = "import_local_path"
	PrefLastRun    = "last_run_version"

	// NoticeDuration is how long a status notice stays on the main window.
	NoticeDuration = 3 * time.Second

	// PickerMinYear is the oldest year offered by the date picker.
	PickerMinYear = 1900
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "ru"}

// -----------------------------------------------------------------------------
// UI Upcoming Window Constants
// -----------------------------------------------------------------------------

const (
	UpcomingWinWidth  = 550
	UpcomingWinHeight = 400

	// Table Column IDs
	ColIDName = 0
	ColIDDate = 1
	ColIDAge  = 2

	// Table Layout
	ColWidthName = 250
	ColWidthDate = 120
	ColWidthAge  = 120

	// Display Formats & Placeholders
	TablePlaceholder = "Cell Content"
	AgeBirth         = "(birth)"
	LogMsgOpenWin    = "Opening upcoming birthdays window"
	LogMsgSorted     = "Upcoming birthdays sorted"

	// Sorting Indicators
	SortIconAsc  = " ▲"
	SortIconDesc = " ▼"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	// Main window
	TKeyWinMain        = "win_main_title"
	TKeyBtnAddFriend   = "btn_add_friend"
	TKeyMenuFile       = "menu_file"
	TKeyMenuImport     = "menu_import"
	TKeyMenuUpcoming   = "menu_upcoming"
	TKeyMenuSettings   = "menu_settings"
	TKeyTrayStatus     = "tray_status"      // Requires Count > 0
	TKeyTrayStatusZero = "tray_status_zero" // Explicit key for 0
	TKeyListEmpty      = "lbl_list_empty"

	// Entry dialogs
	TKeyDlgAddTitle    = "dlg_add_title"
	TKeyDlgEditTitle   = "dlg_edit_title"
	TKeyDlgActionTitle = "dlg_action_title"
	TKeyDlgDateTitle   = "dlg_date_title"
	TKeyLblYear        = "lbl_year"
	TKeyHintName       = "hint_friend_name"
	TKeyBtnSelectDate  = "btn_select_birthday"
	TKeyBtnAdd         = "btn_add"
	TKeyBtnSave        = "btn_save"
	TKeyBtnCancel      = "btn_cancel"
	TKeyBtnEdit        = "btn_edit"
	TKeyBtnDelete      = "btn_delete"
	TKeyBtnOK          = "btn_ok"
	TKeyLblFeed        = "lbl_calendar_feed" // Requires URL
	TKeyErrMissingName = "err_missing_name"
	TKeyErrMissingDate = "err_missing_birthday"
	TKeyNoticeRemoved  = "notice_friend_removed"
	TKeyNoticeAdded    = "notice_friend_added"
	TKeyNoticeUpdated  = "notice_friend_updated"

	// Upcoming window
	TKeyWinUpcoming = "win_upcoming_title"
	TKeyColName     = "col_name"
	TKeyColDate     = "col_date"
	TKeyColAge      = "col_age"
	TKeyFormatDate  = "format_date_short" // Date format pattern (e.g., "02.01.2006")
	TKeyAgeBirth    = "age_birth"

	// Settings window
	TKeyWinSettings  = "win_settings_title"
	TKeyModeCardDAV  = "mode_carddav"
	TKeyModeLocal    = "mode_local"
	TKeyLblLanguage  = "lbl_language"
	TKeyHelpLanguage = "help_language"
	TKeyLblPort      = "lbl_server_port"
	TKeyHelpPort     = "help_port"
	TKeyLblGeneral   = "lbl_general"
	TKeyLblFooter    = "lbl_footer"
	TKeyBtnBrowse    = "btn_browse"
	TKeyLblURL       = "lbl_url"
	TKeyHelpURL      = "help_carddav_url"
	TKeyLblUser      = "lbl_user"
	TKeyLblPass      = "lbl_pass"
	TKeyLblSource    = "lbl_import_source"

	// Notifications
	TKeyNotifImportStart   = "notif_import_start"
	TKeyNotifImportSuccess = "notif_import_success" // Requires Count, Skipped
	TKeyNotifImportError   = "notif_err_import"

	// Calendar event summaries
	TKeyEvtSummaryAge   = "event_summary_age"   // Requires Name, Age
	TKeyEvtSummaryBirth = "event_summary_birth" // Requires Name (For age 0)

	// Validation Errors (UI)
	TKeyErrPortReq   = "err_port_required"
	TKeyErrPortNum   = "err_port_number"
	TKeyErrPortRange = "err_port_range"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb   = "web"
	SourceModeLocal = "local"
	DefaultPort     = "18081"
	DefaultLanguage = "en"
	UIDNamespace    = "go-friends-birthday-v1" // Name-space seed for deterministic event UIDs
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion = "2.0"
	ICalProdid  = "-//Friends Birthday//Engine//EN"
	ICalCalName = "Friends' birthdays"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "friendsbirthday"

	// iCal/vCard Fields
	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// BirthdayLayout is the dd.mm.yyyy layout of Friend.Birthday.
	BirthdayLayout = "02.01.2006"

	// Date layouts accepted in vCard BDAY fields.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort       = 1
	MaxPort       = 65535
	PortMaxDigits = 5

	// UID Generation
	FormatUIDInput = "%d|%s|%s"
	FormatUID      = "%s-%d@%s"

	// File Extensions
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteCalendarFile   = "/friends.ics"
	NetworkTCP          = "tcp"
	FeedURLFormat       = "http://localhost:%s%s" // port, route
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrMissingName     = "friend name is missing"
	ErrMissingBirthday = "friend birthday is not selected"
	ErrIndexRange      = "friend index out of range"
	ErrBirthdayParse   = "birthday is not a dd.mm.yyyy date"
	ErrLocalPathEmpty  = "configuration error: local path is empty"
	ErrWebURLEmpty     = "configuration error: web URL is empty"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrModeUnsupport   = "configuration error: unsupported source mode"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrVCardOpen       = "failed to open vCard source"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrDateNoYear      = "date has no year"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrTrayNotSupport  = "system tray not supported on this platform/driver"
	ErrStartupImport   = "startup import failed"
	ErrRegistryOp      = "registry operation rejected"
	ErrHTTPStatus      = "unexpected HTTP status"
	ErrHTTPRequest     = "failed to build request"
	ErrHTTPNetwork     = "network error during fetch"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummaryAge   = "Birthday: %s (%d)"
	FallbackSummaryBirth = "Birthday: %s (birth)"
	FallbackTrayDefault  = "Friends Birthday (%d today)"
	FallbackTrayLabel    = "Friends Birthday"
	FallbackImportDone   = "Imported %d friends (%d skipped)"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"
	TitleImportError  = "Import Error"

	MsgPortBusy        = "Port %s is busy or unavailable."
	MsgImportStarted   = "Import started"
	MsgImportDone      = "Import finished"
	MsgImportFailed    = "Import failed. Check logs."
	MsgImportReq       = "Import requested"
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping card without usable birthday"
	MsgSkippedFriend   = "Skipping friend with opaque birthday"
	MsgGenSuccess      = "Calendar generation successful"
	MsgAppStarting     = "Starting application"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Calendar cache updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgPassFail        = "Password retrieval failed (might be empty)"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgBdayToday       = "Birthday found today"
	MsgFriendAdded     = "Friend added"
	MsgFriendUpdated   = "Friend updated"
	MsgFriendRemoved   = "Friend removed"
	MsgEntryRejected   = "Entry rejected"
	MsgRegistrySeeded  = "Registry seeded"
	MsgDialogCancelled = "Dialog cancelled"
	MsgDateSelected    = "Date selected"
	MsgFetchStart      = "Downloading address book"
	MsgFetchAccepted   = "Address book download accepted"
	MsgFetchRejected   = "Address book server returned an error status"

	PlaceholderURL = "https://..."
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyUser      = "user"
	LogKeyImported  = "imported"
	LogKeySkipped   = "skipped"
	LogKeyFriends   = "friends"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyStats     = "stats"
	LogKeySortCol   = "sort_column"
	LogKeySortAsc   = "sort_asc"
	LogKeyCount     = "count"
	LogKeyIndex     = "index"
	LogKeyName      = "name"
	LogKeyBirthday  = "birthday"
	LogKeyDialog    = "dialog"
	LogKeyDuration  = "duration_ms"
	LogKeyLength    = "content_length"

	// Startup Info Keys
	LogKeyBuild     = "build"
	LogKeyApp       = "app"
	LogKeyVersion   = "version"
	LogKeyCommit    = "commit"
	LogKeyBuildDate = "build_date"
	LogKeyGoVer     = "go_version"
	LogKeyEnv       = "env"
	LogKeyOS        = "os"
	LogKeyArch      = "arch"
	LogKeyPID       = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI       = "ui"
	CompUIDialog = "ui_dialog"
	CompUISet    = "ui_settings"
	CompRegistry = "registry"
	CompEngine   = "engine"
	CompImporter = "importer"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompMain     = "main"
	CompI18n     = "i18n"
)

// -----------------------------------------------------------------------------
// Dialog Names (logging)
// -----------------------------------------------------------------------------

const (
	DialogAdd    = "add"
	DialogEdit   = "edit"
	DialogAction = "choose_action"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
)
