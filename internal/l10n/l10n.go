// Package l10n renders user-facing phrases in the configured language.
package l10n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/five82/shelf/internal/libcommon"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Supported language tags, in the form accepted by config and prefs.
const (
	English            = "en"
	SimplifiedChinese  = "zh-Hans"
	DefaultLanguageTag = English
)

// Bundle holds every embedded message file.
type Bundle struct {
	bundle *i18n.Bundle
}

// NewBundle parses the embedded locales. English is the fallback language.
func NewBundle() (*Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	paths, err := fs.Glob(localeFS, "locales/*.toml")
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}
	for _, path := range paths {
		buf, err := localeFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", path, err)
		}
		if _, err := bundle.ParseMessageFileBytes(buf, path); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", path, err)
		}
	}
	return &Bundle{bundle: bundle}, nil
}

// Languages lists the tags that have a message file.
func (b *Bundle) Languages() []string {
	tags := b.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out
}

// Localizer returns phrases for lang. Unknown tags fall back to English.
func (b *Bundle) Localizer(lang string) *Localizer {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = DefaultLanguageTag
	}
	return &Localizer{lang: lang, loc: i18n.NewLocalizer(b.bundle, lang)}
}

// Localizer implements libcommon.Phrases for one language.
type Localizer struct {
	lang string
	loc  *i18n.Localizer
}

var _ libcommon.Phrases = (*Localizer)(nil)

// Language returns the tag the localizer was asked for.
func (l *Localizer) Language() string { return l.lang }

func (l *Localizer) JustNow() string {
	return l.message("JustNow", 0, libcommon.EnglishPhrases.JustNow())
}

func (l *Localizer) MinutesAgo(n int) string {
	return l.message("MinutesAgo", n, libcommon.EnglishPhrases.MinutesAgo(n))
}

func (l *Localizer) HoursAgo(n int) string {
	return l.message("HoursAgo", n, libcommon.EnglishPhrases.HoursAgo(n))
}

func (l *Localizer) DaysAgo(n int) string {
	return l.message("DaysAgo", n, libcommon.EnglishPhrases.DaysAgo(n))
}

// ErrorText localizes the client's sentinel errors. Anything else, including
// server messages carried by *libcommon.APIError, is returned unchanged.
func (l *Localizer) ErrorText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, libcommon.ErrSessionExpired):
		return l.message("SessionExpired", 0, err.Error())
	case errors.Is(err, libcommon.ErrNetwork):
		return l.message("NetworkError", 0, err.Error())
	default:
		return err.Error()
	}
}

func (l *Localizer) message(id string, count int, fallback string) string {
	out, err := l.loc.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]int{"Count": count},
	})
	if err != nil || out == "" {
		return fallback
	}
	return out
}
