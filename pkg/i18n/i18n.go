package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Locale represents a supported language
type Locale string

const (
	LocaleJa Locale = "ja"
	LocaleEn Locale = "en"
)

var defaultLocale = LocaleEn

// supportedTags is the matcher input; the first entry is the fallback.
var supportedTags = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supportedTags)

// Bundle holds all translations for all locales
type Bundle struct {
	mu           sync.RWMutex
	translations map[Locale]map[string]string
	fallback     Locale
}

// NewBundle creates a new i18n bundle with the given fallback locale
func NewBundle(fallback Locale) *Bundle {
	return &Bundle{
		translations: make(map[Locale]map[string]string),
		fallback:     fallback,
	}
}

// Default returns a bundle loaded with the built-in widget strings
func Default() *Bundle {
	b := NewBundle(LocaleEn)
	for locale, msgs := range DefaultMessages() {
		b.LoadMessages(locale, msgs)
	}
	return b
}

// LoadDir loads all JSON translation files from a directory.
// Files should be named like: en.json, ja.json
func (b *Bundle) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read i18n dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		locale := Locale(strings.TrimSuffix(entry.Name(), ".json"))
		path := filepath.Join(dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var msgs map[string]string
		if err := json.Unmarshal(data, &msgs); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		b.LoadMessages(locale, msgs)
	}

	return nil
}

// LoadMessages merges translations for a specific locale
func (b *Bundle) LoadMessages(locale Locale, messages map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, ok := b.translations[locale]
	if !ok {
		existing = make(map[string]string, len(messages))
		b.translations[locale] = existing
	}
	for k, v := range messages {
		existing[k] = v
	}
}

// T translates a message key for the given locale.
// Falls back to the bundle's fallback locale, then returns the key itself.
func (b *Bundle) T(locale Locale, key string, args ...interface{}) string {
	msg, ok := b.lookup(locale, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Has reports whether key is translated for locale or the fallback locale
func (b *Bundle) Has(locale Locale, key string) bool {
	_, ok := b.lookup(locale, key)
	return ok
}

func (b *Bundle) lookup(locale Locale, key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if msgs, ok := b.translations[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg, true
		}
	}
	if locale != b.fallback {
		if msgs, ok := b.translations[b.fallback]; ok {
			if msg, ok := msgs[key]; ok {
				return msg, true
			}
		}
	}
	return "", false
}

// ParseLocale collapses a language value to a supported locale.
// Only Japanese is distinguished; every other value is English.
func ParseLocale(value string) Locale {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(value), "_", "-"))
	if err != nil {
		return defaultLocale
	}
	base, _ := tag.Base()
	if base.String() == "ja" {
		return LocaleJa
	}
	return LocaleEn
}

// ParseAcceptLanguage parses the Accept-Language header and returns the best matching locale
func ParseAcceptLanguage(header string) Locale {
	if strings.TrimSpace(header) == "" {
		return defaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return defaultLocale
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return defaultLocale
	}
	if supportedTags[idx] == language.Japanese {
		return LocaleJa
	}
	return LocaleEn
}

// AmbientLocale derives the runtime locale: the host's Accept-Language when present,
// then the process LANG/LC_ALL environment.
func AmbientLocale(acceptLanguage string) Locale {
	if strings.TrimSpace(acceptLanguage) != "" {
		return ParseAcceptLanguage(acceptLanguage)
	}
	for _, name := range []string{"LC_ALL", "LANG"} {
		if v := os.Getenv(name); v != "" {
			// ja_JP.UTF-8 -> ja-JP
			return ParseLocale(strings.SplitN(v, ".", 2)[0])
		}
	}
	return defaultLocale
}

// SupportedLocales returns all locales that have translations loaded
func (b *Bundle) SupportedLocales() []Locale {
	b.mu.RLock()
	defer b.mu.RUnlock()

	locales := make([]Locale, 0, len(b.translations))
	for l := range b.translations {
		locales = append(locales, l)
	}
	return locales
}
