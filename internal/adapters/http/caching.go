package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses that did not set
// one. Anything depending on the session origin or history is private.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/v1/categories":
			ttl = "public, max-age=3600" // static table

		case strings.HasPrefix(path, "/v1/geocode/"):
			ttl = "public, max-age=3600" // keyed by coordinates or name only

		case path == "/v1/origin",
			strings.HasPrefix(path, "/v1/history"),
			strings.HasPrefix(path, "/v1/suggestions"):
			ttl = "private, no-store"

		case path == "/v1/map":
			ttl = "private, max-age=0"

		case strings.HasPrefix(path, "/v1/places/"),
			strings.HasPrefix(path, "/v1/categories/"):
			// The session origin drives the results but is not in the URL,
			// so clients revalidate through the ETag on every request.
			ttl = "private, no-cache"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
