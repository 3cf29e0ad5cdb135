package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/samirrijal/litpass/internal/adapters/maps"
	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/usecases"
	"github.com/samirrijal/litpass/internal/pkg/geospatial"
)

// MapDocumentHandler renders a self-contained Leaflet page for WebView
// clients: the session origin, the results of ?category or ?text, and
// ?selected promoted above the rest. An explicit ?radius frames the whole
// search circle.
func MapDocumentHandler(deps *Dependencies) fiber.Handler {
	defaultZoom := deps.Map.DefaultZoom
	if defaultZoom <= 0 {
		defaultZoom = maps.DefaultZoom
	}

	return func(c *fiber.Ctx) error {
		radius, err := radiusParam(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		ctx := c.UserContext()
		sess := sessionFrom(c)
		origin := sess.Resolver.CurrentOrigin()

		var places []domain.Place
		switch category, text := c.Query("category"), utils.CopyString(strings.TrimSpace(c.Query("text"))); {
		case category != "":
			places, err = deps.Categories.SearchCategory(ctx, category, origin.Coordinates, radius)
		case text != "":
			places, err = deps.Places.Search(ctx, sess.ID, origin, domain.SearchQuery{Text: text, RadiusMeters: radius})
		}
		if err != nil {
			return errFrom(c, err)
		}

		zoom := defaultZoom
		if c.Query("radius") != "" {
			zoom = geospatial.ZoomForRadius(origin.Coordinates.Lat, float64(radius))
		}

		web := maps.NewWeb(nil, deps.Map.TileURL, deps.Map.Attribution)
		if err := web.SetCenter(ctx, origin.Coordinates, zoom); err != nil {
			return errInternal(c, err.Error())
		}
		markers := usecases.MarkersFor(places, &origin, c.Query("selected"), nil)
		if err := web.RenderMarkers(ctx, markers); err != nil {
			return errInternal(c, err.Error())
		}

		c.Type("html", "utf-8")
		return c.SendString(web.Document())
	}
}
