package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/common"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/logging"
)

const msgInternal = "Internal server error."

// ErrorHandler renders every failure as {"error":{"message":...}}. Known kinds
// get a fixed status and prefix; anything else is logged and reported as 500
// without detail.
func ErrorHandler(l logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, msg := classify(err)
		if status >= fiber.StatusInternalServerError {
			l.Error(c.UserContext(), "request failed",
				"method", c.Method(), "path", c.Path(), "error", err)
		}

		return c.Status(status).JSON(fiber.Map{
			"error": fiber.Map{"message": msg},
		})
	}
}

// classify maps err to a status and message. The kind of the outermost
// *common.Error decides, so its cause cannot change the status.
func classify(err error) (int, string) {
	var (
		fe   *fiber.Error
		ce   *common.Error
		kind = err
	)
	if errors.As(err, &ce) {
		kind = ce.Kind
	}

	switch {
	case errors.Is(kind, common.ErrNotFound):
		return fiber.StatusNotFound, "Resource not found. " + common.Detail(err)
	case errors.Is(kind, common.ErrValidation),
		errors.Is(kind, common.ErrBadRequest),
		errors.Is(kind, common.ErrInvalidToken),
		errors.Is(kind, common.ErrTokenExpired):
		return fiber.StatusBadRequest, "Request is invalid. " + common.Detail(err)
	case errors.Is(kind, common.ErrUnauthorized):
		return fiber.StatusUnauthorized, "Access restricted. " + common.Detail(err)
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	default:
		return fiber.StatusInternalServerError, msgInternal
	}
}
