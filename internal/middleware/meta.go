package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const responseMetaKey = "response_meta"

// ResponseMeta starts the per-request metadata map handlers fill through SetMeta.
// processing_time_ms is stamped when handlers call Meta.
func ResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Set(responseMetaKey+".start", time.Now())
		c.Next()
	}
}

// SetMeta stores key in the response metadata.
func SetMeta(c *gin.Context, key string, value interface{}) {
	meta(c)[key] = value
}

// SetCacheHit records whether the payload was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, "cache_hit", hit)
}

// Meta returns the metadata collected so far, or nil when nothing was recorded.
func Meta(c *gin.Context) map[string]interface{} {
	m := meta(c)
	if len(m) == 0 {
		return nil
	}
	if start, ok := c.Get(responseMetaKey + ".start"); ok {
		if t, ok := start.(time.Time); ok {
			m["processing_time_ms"] = time.Since(t).Milliseconds()
		}
	}
	return m
}

func meta(c *gin.Context) map[string]interface{} {
	if value, exists := c.Get(responseMetaKey); exists {
		if typed, ok := value.(map[string]interface{}); ok {
			return typed
		}
	}
	m := make(map[string]interface{})
	c.Set(responseMetaKey, m)
	return m
}
