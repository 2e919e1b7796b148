package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on successful GET responses
// based on endpoint, unless the handler already set one.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || c.Response().StatusCode() >= 400 {
			return err
		}
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}
		if ttl := cacheControlFor(c.Path()); ttl != "" {
			c.Set("Cache-Control", ttl)
		}
		return err
	}
}

func cacheControlFor(path string) string {
	switch {
	case path == "/v1/health" || path == "/v1/ready":
		return "no-cache"
	case path == "/metrics":
		return "no-cache"
	case path == "/v1/areas" || path == "/v1/activities":
		return "public, max-age=3600" // static catalogs
	case strings.HasPrefix(path, "/v1/routes/"):
		return "public, max-age=3600" // upstream documents are revalidated hourly
	case path == "/v1/routes":
		return "public, max-age=300"
	case strings.HasPrefix(path, "/v1/"):
		return "public, max-age=60"
	}
	return ""
}
