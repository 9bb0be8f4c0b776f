// Package widget is the framework-independent widget runtime: attribute-driven
// configuration, remote synchronization, ownership checks and the compose/edit/delete
// workflow of the bulletin board widget.
package widget

import (
	"strconv"
	"strings"

	"github.com/nostalgic/widgets/internal/domain"
	"github.com/nostalgic/widgets/pkg/i18n"
)

// Resolve normalizes raw attributes into a WidgetConfig. It is pure: the ambient
// locale is an input, and unknown theme/format values are kept verbatim so the
// renderer can apply its own defaults.
func Resolve(attrs domain.Attributes, ambient i18n.Locale) domain.WidgetConfig {
	cfg := domain.WidgetConfig{
		EntityID: strings.TrimSpace(attrs["id"]),
		Page:     attrs["page"],
		Theme:    attrs["theme"],
		Format:   attrs["format"],
	}

	lang, ok := attrs["lang"]
	if !ok || strings.TrimSpace(lang) == "" {
		if ambient == "" {
			ambient = i18n.LocaleEn
		}
		cfg.Language = string(i18n.ParseLocale(string(ambient)))
	} else {
		cfg.Language = string(i18n.ParseLocale(lang))
	}
	return cfg
}

// PinnedPage reports the explicitly requested page, if any. Anything that is not a
// positive integer leaves the page unpinned.
func PinnedPage(cfg domain.WidgetConfig) (int, bool) {
	raw := strings.TrimSpace(cfg.Page)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Locale returns the config language as a Locale
func Locale(cfg domain.WidgetConfig) i18n.Locale {
	if cfg.Language == string(i18n.LocaleJa) {
		return i18n.LocaleJa
	}
	return i18n.LocaleEn
}
