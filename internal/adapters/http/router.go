package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/litpass/internal/pkg/metrics"
)

// requestTimeout bounds handlers that call the places provider. It sits
// above the client's own timeout so provider errors surface as 502s.
const requestTimeout = 20 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per IP. Autocomplete traffic belongs on /ws.
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version. The map document is framed by
	// WebViews, so it opts out of X-Frame-Options.
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		if c.Path() != "/v1/map" {
			c.Set("X-Frame-Options", "DENY")
		}
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no session, no timeout)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	sessions := SessionMiddleware(deps.Sessions)
	withTimeout := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, requestTimeout)
	}

	v1 := app.Group("/v1", sessions)
	v1.Get("/places/search", withTimeout(SearchPlacesHandler(deps)))
	v1.Get("/places/autocomplete", withTimeout(AutocompleteHandler(deps)))
	v1.Get("/categories", ListCategoriesHandler(deps))
	v1.Get("/categories/:name/places", withTimeout(CategoryPlacesHandler(deps)))
	v1.Get("/geocode/reverse", withTimeout(ReverseGeocodeHandler(deps)))
	v1.Get("/geocode/city", withTimeout(GeocodeCityHandler(deps)))

	v1.Get("/origin", GetOriginHandler(deps))
	v1.Put("/origin", SetOriginHandler(deps))
	v1.Delete("/origin", ClearOriginHandler(deps))
	v1.Post("/origin/device", withTimeout(DeviceOriginHandler(deps)))
	v1.Post("/origin/city", withTimeout(CityOriginHandler(deps)))

	v1.Post("/share", withTimeout(ShareHandler(deps)))
	v1.Get("/history", HistoryHandler(deps))
	v1.Delete("/history", ClearHistoryHandler(deps))
	v1.Delete("/history/:id", RemoveHistoryHandler(deps))
	v1.Get("/suggestions", SuggestionsHandler(deps))

	v1.Get("/map", withTimeout(MapDocumentHandler(deps)))

	app.Post("/graphql", sessions, withTimeout(GraphQLHandler(deps)))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, sessions)
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}
