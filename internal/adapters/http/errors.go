package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/railwatch/internal/core/domain"
	"github.com/samirrijal/railwatch/internal/core/proximity"
	"github.com/samirrijal/railwatch/internal/core/usecases"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, conflict, unavailable, internal_error
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

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusConflict, "conflict", msg)
}

func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusServiceUnavailable, "unavailable", msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// fromServiceError maps use-case errors onto API errors. Internal failures are
// logged and hidden from the client.
func fromServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecases.ErrInvalidReport),
		errors.Is(err, usecases.ErrInvalidDetection),
		errors.Is(err, usecases.ErrInvalidDevice):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, usecases.ErrSessionNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, usecases.ErrSessionExists):
		return errConflict(c, err.Error())
	case errors.Is(err, usecases.ErrSessionCancelled):
		return errUnavailable(c, "server is shutting down")
	case errors.Is(err, proximity.ErrSubscribe):
		LoggerFromCtx(c.UserContext()).Warn("live feed unavailable", "error", err)
		return errUnavailable(c, "live location feeds are unavailable, monitoring could not start; try again shortly")
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, "internal error")
	}
}
