package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sashika20643/Soundpath-sub001/internal/cache"
)

func CacheMiddleware(store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("cache", store)
		c.Next()
	}
}

// GetCache returns the request-scoped cache. A nil result is valid and means
// caching is disabled.
func GetCache(c *gin.Context) *cache.Cache {
	store, exists := c.Get("cache")
	if !exists {
		return nil
	}
	return store.(*cache.Cache)
}
