package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// EmbedHeaders adds the security headers of an embeddable widget response. Pages
// on the allowed origins may frame the widgets; "*" allows any origin.
func EmbedHeaders(allowOrigins []string) gin.HandlerFunc {
	ancestors := "*"
	if len(allowOrigins) > 0 && !contains(allowOrigins, "*") {
		ancestors = "'self' " + strings.Join(allowOrigins, " ")
	}
	csp := "default-src 'none'; style-src 'unsafe-inline'; img-src 'self' data: https:; form-action 'self'; frame-ancestors " + ancestors

	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", csp)

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
