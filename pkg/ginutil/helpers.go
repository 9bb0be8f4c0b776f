package ginutil

import "github.com/gin-gonic/gin"

// QueryMap collects the named query parameters that are present. Absent names are
// left out so callers can tell "missing" from "empty".
func QueryMap(c *gin.Context, names ...string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		if v, ok := c.GetQuery(name); ok {
			out[name] = v
		}
	}
	return out
}

// FormMap is QueryMap for posted form values
func FormMap(c *gin.Context, names ...string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		if v, ok := c.GetPostForm(name); ok {
			out[name] = v
		}
	}
	return out
}
