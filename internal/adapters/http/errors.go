package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/litpass/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, provider_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errFrom maps a service error onto the response envelope.
func errFrom(c *fiber.Ctx, err error) error {
	var pe *domain.ProviderError
	switch {
	case errors.As(err, &pe):
		LoggerFromCtx(c.UserContext()).WarnContext(c.UserContext(), "places provider failed",
			"op", pe.Op, "status", pe.StatusCode, "error", err)
		return newError(c, 502, "provider_error", "places provider unavailable")
	case errors.Is(err, domain.ErrNoMatch):
		return newError(c, 404, "no_match", err.Error())
	case errors.Is(err, domain.ErrUnknownCategory):
		return errNotFound(c, err.Error())
	default:
		return errInternal(c, err.Error())
	}
}
