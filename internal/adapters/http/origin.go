package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/litpass/internal/core/domain"
)

type originRequest struct {
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Label string   `json:"label"`
}

type deviceReport struct {
	Status domain.PermissionStatus `json:"status"`
	Lat    *float64                `json:"lat"`
	Lon    *float64                `json:"lon"`
}

type cityRequest struct {
	Text string `json:"text"`
}

// GetOriginHandler returns the session's effective origin.
func GetOriginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(sessionFrom(c).Resolver.CurrentOrigin())
	}
}

// SetOriginHandler pins a manual origin.
func SetOriginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req originRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Lat == nil || req.Lon == nil {
			return errBadRequest(c, "lat and lon are required")
		}
		pt := domain.Coordinates{Lat: *req.Lat, Lon: *req.Lon}
		if !pt.Valid() {
			return errBadRequest(c, "coordinates out of range")
		}
		origin := sessionFrom(c).Resolver.SetManualOrigin(c.UserContext(), pt, strings.TrimSpace(req.Label))
		return c.JSON(origin)
	}
}

// ClearOriginHandler drops the manual origin.
func ClearOriginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(sessionFrom(c).Resolver.ClearManualOrigin(c.UserContext()))
	}
}

// DeviceOriginHandler records what the device reported and asks the
// resolver for a fix. A denied permission is not an error: the origin
// simply stays where it was.
func DeviceOriginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req deviceReport
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		var fix *domain.Coordinates
		switch req.Status {
		case domain.PermissionGranted:
			if req.Lat == nil || req.Lon == nil {
				return errBadRequest(c, "lat and lon are required when permission is granted")
			}
			pt := domain.Coordinates{Lat: *req.Lat, Lon: *req.Lon}
			if !pt.Valid() {
				return errBadRequest(c, "coordinates out of range")
			}
			fix = &pt
		case domain.PermissionDenied, domain.PermissionUndetermined:
		default:
			return errBadRequest(c, "status must be granted, denied or undetermined")
		}

		sess := sessionFrom(c)
		sess.Locator.Report(req.Status, fix, time.Now())

		_, err := sess.Resolver.RequestDeviceFix(c.UserContext())
		if err != nil && !errors.Is(err, domain.ErrPermissionDenied) {
			return errFrom(c, err)
		}
		return c.JSON(fiber.Map{
			"origin":     sess.Resolver.CurrentOrigin(),
			"device_fix": err == nil,
		})
	}
}

// CityOriginHandler geocodes a city name and pins it as the origin.
func CityOriginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req cityRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(req.Text) == "" {
			return errBadRequest(c, "text is required")
		}
		origin, err := sessionFrom(c).Resolver.SetManualOriginFromCity(c.UserContext(), req.Text)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(origin)
	}
}
