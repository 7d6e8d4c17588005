package ui

import (
	"embed"
	"encoding/json"
	"log/slog"
	"path"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-friends-birthday/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

// SetupI18n loads every embedded locales/active.<lang>.json into a bundle.
// The detected languages replace SupportedLanguages.
func (app *FriendsApp) SetupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var langs []string
	for _, entry := range entries {
		lang, ok := langFromLocaleFile(entry.Name())
		if !ok {
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, path.Join(localeDir, entry.Name())); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, entry.Name(),
				config.LogKeyError, err,
			)
			continue
		}
		langs = append(langs, lang)
	}

	app.SupportedLanguages = langs
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// langFromLocaleFile extracts "ru" from "active.ru.json".
func langFromLocaleFile(name string) (string, bool) {
	if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
		slog.Debug(config.MsgLocaleSkip,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyFile, name,
		)
		return "", false
	}

	lang := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
	if lang == "" {
		slog.Warn(config.MsgLocaleBadName,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyFile, name,
		)
		return "", false
	}
	return lang, true
}

// UpdateLocalizer refreshes the translator based on the user's language preference.
func (app *FriendsApp) UpdateLocalizer() {
	if app.I18nBundle == nil {
		return
	}
	lang := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, lang, config.DefaultLanguage)
	slog.Debug(config.MsgLocaleLoaded,
		config.LogKeyComponent, config.CompI18n,
		config.LogKeyLang, lang,
	)
}

// GetMsg translates a key. A missing key is returned as-is so the UI never shows an empty label.
func (app *FriendsApp) GetMsg(key string) string {
	return app.GetMsgWith(key, nil, nil)
}

// GetMsgWith translates a key with template data and an optional plural count.
func (app *FriendsApp) GetMsgWith(key string, data map[string]interface{}, pluralCount interface{}) string {
	if app.Localizer == nil {
		return key
	}
	msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
		PluralCount:  pluralCount,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}
