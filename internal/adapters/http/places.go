package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/usecases"
)

const maxLimit = 100

type placesResponse struct {
	Origin       domain.SearchOrigin `json:"origin"`
	RadiusMeters int                 `json:"radius_meters"`
	Places       []domain.Place      `json:"places"`
}

func newPlacesResponse(origin domain.SearchOrigin, radius int, places []domain.Place) placesResponse {
	if places == nil {
		places = []domain.Place{}
	}
	return placesResponse{Origin: origin, RadiusMeters: radius, Places: places}
}

// radiusParam reads ?radius, defaulting to 5 km. Only the selectable radii
// are accepted.
func radiusParam(c *fiber.Ctx) (int, error) {
	raw := c.Query("radius")
	if raw == "" {
		return domain.DefaultRadius, nil
	}
	r, err := strconv.Atoi(raw)
	if err != nil || !domain.ValidRadius(r) {
		return 0, fmt.Errorf("radius must be one of %v meters", domain.Radii)
	}
	return r, nil
}

func coordinatesParam(c *fiber.Ctx) (domain.Coordinates, error) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		return domain.Coordinates{}, fmt.Errorf("lat and lon are required")
	}
	pt := domain.Coordinates{Lat: lat, Lon: lon}
	if !pt.Valid() {
		return domain.Coordinates{}, fmt.Errorf("coordinates out of range")
	}
	return pt, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SearchPlacesHandler runs a free-text and/or category search around the
// session's current origin.
func SearchPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// text ends up in the session's history and must outlive the request.
		text := utils.CopyString(strings.TrimSpace(c.Query("text")))
		categories := splitList(c.Query("categories"))
		if text == "" && len(categories) == 0 {
			return errBadRequest(c, "text or categories is required")
		}
		if len(text) > 200 {
			return errBadRequest(c, "text too long (max 200 characters)")
		}
		radius, err := radiusParam(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		limit := c.QueryInt("limit", 0)
		if limit < 0 || limit > maxLimit {
			return errBadRequest(c, fmt.Sprintf("limit must be between 1 and %d", maxLimit))
		}

		sess := sessionFrom(c)
		origin := sess.Resolver.CurrentOrigin()
		places, err := deps.Places.Search(c.UserContext(), sess.ID, origin, domain.SearchQuery{
			Text:         text,
			RadiusMeters: radius,
			Categories:   categories,
			Limit:        limit,
		})
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(newPlacesResponse(origin, radius, places))
	}
}

// AutocompleteHandler is the one-shot autocomplete. Short input and
// provider failures both yield an empty list.
func AutocompleteHandler(deps *Dependencies) fiber.Handler {
	minChars := deps.Autocomplete.MinChars
	if minChars <= 0 {
		minChars = usecases.DefaultMinChars
	}

	return func(c *fiber.Ctx) error {
		text := strings.TrimSpace(c.Query("text"))
		if utf8.RuneCountInString(text) <= minChars {
			return c.JSON([]domain.Place{})
		}
		origin := sessionFrom(c).Resolver.CurrentOrigin()
		return c.JSON(deps.Places.Autocomplete(c.UserContext(), text, &origin.Coordinates))
	}
}

// ListCategoriesHandler returns the category names in display order.
func ListCategoriesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats := deps.Categories.Categories()
		names := make([]string, 0, len(cats))
		for _, cat := range cats {
			names = append(names, cat.Name)
		}
		return c.JSON(names)
	}
}

// CategoryPlacesHandler searches every tag group of a category around the
// session's origin.
func CategoryPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil || strings.TrimSpace(name) == "" {
			return errBadRequest(c, "category name is required")
		}
		radius, err := radiusParam(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		origin := sessionFrom(c).Resolver.CurrentOrigin()
		places, err := deps.Categories.SearchCategory(c.UserContext(), name, origin.Coordinates, radius)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(newPlacesResponse(origin, radius, places))
	}
}

// ReverseGeocodeHandler turns ?lat&lon into a display address. It falls
// back to the formatted coordinates rather than failing.
func ReverseGeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pt, err := coordinatesParam(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(fiber.Map{
			"coordinates": pt,
			"address":     deps.Provider.ReverseGeocode(c.UserContext(), pt),
		})
	}
}

// GeocodeCityHandler returns the best city match for ?text.
func GeocodeCityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		text := strings.TrimSpace(c.Query("text"))
		if text == "" {
			return errBadRequest(c, "text query parameter is required")
		}
		match, err := deps.Provider.GeocodeCity(c.UserContext(), text)
		if err != nil {
			return errFrom(c, err)
		}
		if match == nil {
			return errFrom(c, fmt.Errorf("city %q: %w", text, domain.ErrNoMatch))
		}
		return c.JSON(match)
	}
}
