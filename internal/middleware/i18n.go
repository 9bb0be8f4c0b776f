package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/nostalgic/widgets/pkg/i18n"
)

const localeKey = "locale"

// I18n detects the host page's language from Accept-Language (falling back to the
// process locale) and stores it in the gin context as the ambient widget locale.
func I18n() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.AmbientLocale(c.GetHeader("Accept-Language"))
		c.Set(localeKey, locale)
		c.Header("Content-Language", string(locale))
		c.Next()
	}
}

// GetLocale returns the locale from the gin context (set by I18n middleware)
func GetLocale(c *gin.Context) i18n.Locale {
	if v, exists := c.Get(localeKey); exists {
		if locale, ok := v.(i18n.Locale); ok {
			return locale
		}
	}
	return i18n.LocaleEn
}
