package render

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-onthisday/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

var (
	bundleOnce    sync.Once
	bundle        *i18n.Bundle
	detectedLangs []string
)

// loadBundle builds the translation bundle from the embedded locale files once.
func loadBundle() *i18n.Bundle {
	bundleOnce.Do(func() {
		bundle = i18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

		entries, err := localeFS.ReadDir(localeDir)
		if err != nil {
			slog.Error(config.ErrLocalesAccess,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyError, err,
			)
			return
		}

		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
				slog.Debug(config.MsgLocaleSkip,
					config.LogKeyComponent, config.CompI18n,
					config.LogKeyFile, name,
				)
				continue
			}

			langCode := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
			if langCode == "" {
				slog.Warn(config.MsgLocaleBadName,
					config.LogKeyComponent, config.CompI18n,
					config.LogKeyFile, name,
				)
				continue
			}

			if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
				slog.Error(config.ErrLocaleLoad,
					config.LogKeyComponent, config.CompI18n,
					config.LogKeyFile, name,
					config.LogKeyError, err,
				)
				continue
			}

			detectedLangs = append(detectedLangs, langCode)
			slog.Debug(config.MsgLocaleLoaded,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyLang, langCode,
			)
		}
	})
	return bundle
}

// Languages returns the language codes found in the embedded locales.
func Languages() []string {
	loadBundle()
	return append([]string(nil), detectedLangs...)
}

// Translator resolves the renderer's fixed labels for one language.
// Unknown languages fall back to English.
type Translator struct {
	lang      string
	localizer *i18n.Localizer
}

// NewTranslator returns a Translator for lang (ISO 639-1, e.g. "fr").
func NewTranslator(lang string) *Translator {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	return &Translator{
		lang:      lang,
		localizer: i18n.NewLocalizer(loadBundle(), lang),
	}
}

// Lang returns the requested language code.
func (t *Translator) Lang() string {
	if t == nil {
		return config.DefaultLanguage
	}
	return t.lang
}

// Msg translates key, returning the key itself when no message exists.
func (t *Translator) Msg(key string) string {
	if t == nil || t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
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
