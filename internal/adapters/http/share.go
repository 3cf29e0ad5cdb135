package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/litpass/internal/adapters/device"
	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/ports"
)

type shareRequest struct {
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Label   string   `json:"label"`
	Address string   `json:"address"`
	// Deliver queues the text for the session's websocket, which opens the
	// native share sheet. Otherwise the caller shares the returned text.
	Deliver bool `json:"deliver"`
}

// ShareHandler formats a location share.
func ShareHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req shareRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Lat == nil || req.Lon == nil {
			return errBadRequest(c, "lat and lon are required")
		}
		target := domain.ShareTarget{
			Coordinates: domain.Coordinates{Lat: *req.Lat, Lon: *req.Lon},
			Label:       strings.TrimSpace(req.Label),
			Address:     strings.TrimSpace(req.Address),
		}
		if !target.Coordinates.Valid() {
			return errBadRequest(c, "coordinates out of range")
		}

		sess := sessionFrom(c)
		var sheet ports.ShareSheet
		if req.Deliver {
			sheet = sess.Sheet
		}

		shared, err := deps.Share.Share(c.UserContext(), sess.ID, sheet, target)
		if errors.Is(err, device.ErrSheetFull) {
			return newError(c, fiber.StatusConflict, "conflict", "a previous share is still pending")
		}
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(shared)
	}
}

// HistoryHandler lists the session's recent searches, newest first.
func HistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := deps.Suggestions.History(c.UserContext(), sessionFrom(c).ID)
		if err != nil {
			return errFrom(c, err)
		}
		if entries == nil {
			entries = []domain.HistoryEntry{}
		}
		return c.JSON(entries)
	}
}

// ClearHistoryHandler deletes the session's history.
func ClearHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Suggestions.Clear(c.UserContext(), sessionFrom(c).ID); err != nil {
			return errFrom(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RemoveHistoryHandler deletes one history entry.
func RemoveHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "history entry id is required")
		}
		if err := deps.Suggestions.Remove(c.UserContext(), sessionFrom(c).ID, id); err != nil {
			return errFrom(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SuggestionsHandler returns recent and trending suggestions for ?text.
func SuggestionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := deps.Suggestions.Suggest(c.UserContext(), sessionFrom(c).ID, c.Query("text"))
		if err != nil {
			return errFrom(c, err)
		}
		if out == nil {
			out = []domain.Suggestion{}
		}
		return c.JSON(out)
	}
}
