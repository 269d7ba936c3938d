package pagecache

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
)

const (
	IndexKeyPrefix = "index_page"
	DefaultTTL     = 20 * time.Second
)

// Middleware caches whole GET responses under keyPrefix plus the request
// URI, so every page number of a listing is its own entry.
func Middleware(store *Store, keyPrefix string, ttl time.Duration) fiber.Handler {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return cache.New(cache.Config{
		Expiration:   ttl,
		CacheHeader:  "X-Cache",
		Storage:      store,
		KeyGenerator: func(c *fiber.Ctx) string {
			return keyPrefix + ":" + c.OriginalURL()
		},
	})
}
