package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/c2cexplorer/internal/adapters/c2c"
	"github.com/samirrijal/c2cexplorer/internal/core/domain"
)

// statusClientClosedRequest is answered when the caller went away mid-request.
const statusClientClosedRequest = 499

// APIError is a structured error response.
type APIError struct {
	Status         int    `json:"status"`
	Code           string `json:"code"`    // Error code: bad_request, not_found, upstream_error, etc.
	Message        string `json:"message"` // Human-readable message
	RequestID      string `json:"request_id,omitempty"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return writeError(c, APIError{Status: status, Code: code, Message: message})
}

func writeError(c *fiber.Ctx, e APIError) error {
	e.RequestID, _ = c.Locals("requestid").(string)
	return c.Status(e.Status).JSON(e)
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errBadGateway returns a 502 error for a failed upstream call.
func errBadGateway(c *fiber.Ctx, upstreamStatus int, msg string) error {
	return writeError(c, APIError{
		Status:         fiber.StatusBadGateway,
		Code:           "upstream_error",
		Message:        msg,
		UpstreamStatus: upstreamStatus,
	})
}

// errFromService maps a service error onto the JSON error envelope.
// Deadline errors are returned as-is so the timeout middleware answers 408.
func errFromService(c *fiber.Ctx, err error) error {
	var ue *c2c.UpstreamError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, domain.ErrInvalidInput):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, "route not found")
	case errors.As(err, &ue):
		return errBadGateway(c, ue.StatusCode, err.Error())
	case errors.Is(err, context.Canceled):
		return newError(c, statusClientClosedRequest, "client_closed_request", "request canceled by client")
	default:
		LoggerFromCtx(c.UserContext()).Error("upstream request failed", "error", err)
		return errBadGateway(c, 0, err.Error())
	}
}
