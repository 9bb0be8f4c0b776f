package middleware

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// CacheConfig configures the cache middleware
type CacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:       30 * time.Second,
		KeyPrefix: "widgets:page:",
	}
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// Cache keeps rendered GET responses of visitor-independent widgets in Redis.
// The key covers the URL and the resolved locale, so it must run after I18n.
func Cache(redisClient *redis.Client, cfg CacheConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheConfig().TTL
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultCacheConfig().KeyPrefix
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || redisClient == nil {
			c.Next()
			return
		}

		key := cfg.KeyPrefix + cacheKey(c.Request.URL.Path, c.Request.URL.RawQuery, string(GetLocale(c)))

		ctx := c.Request.Context()
		if val, err := redisClient.Get(ctx, key).Bytes(); err == nil {
			var cached cachedResponse
			if json.Unmarshal(val, &cached) == nil {
				c.Header("X-Cache", "HIT")
				c.Data(cached.Status, cached.ContentType, []byte(cached.Body))
				c.Abort()
				return
			}
		}

		w := &responseWriter{ResponseWriter: c.Writer, body: make([]byte, 0, 1024)}
		c.Writer = w
		c.Header("X-Cache", "MISS")

		c.Next()

		status := w.status
		if status == 0 {
			status = http.StatusOK
		}
		// only successful renders; widget errors are rendered with 200 as well, so
		// handlers opt out through c.Set(NoCacheKey, true)
		if status != http.StatusOK || c.GetBool(NoCacheKey) {
			return
		}
		data, err := json.Marshal(cachedResponse{
			Status:      status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        string(w.body),
		})
		if err != nil {
			return
		}
		redisClient.Set(ctx, key, data, cfg.TTL)
	}
}

// NoCacheKey marks a response that Cache must not store
const NoCacheKey = "no_cache"

func cacheKey(path, query, locale string) string {
	raw := path + "|" + locale
	if query != "" {
		raw += "?" + query
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(raw)))
}

// responseWriter captures the response body
type responseWriter struct {
	gin.ResponseWriter
	body   []byte
	status int
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, []byte(s)...)
	return w.ResponseWriter.WriteString(s)
}
