package serverutils

import (
	"errors"

	"heartlink-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors returned by handlers into the JSON
// error envelope. Taxonomy sentinels map to their HTTP status; everything
// else becomes an opaque 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		status := fiber.StatusInternalServerError
		message := "Internal server error"
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			status = fiber.StatusNotFound
			message = err.Error()
		case errors.Is(err, apperror.ErrValidation):
			status = fiber.StatusBadRequest
			message = err.Error()
		case errors.Is(err, apperror.ErrForbidden):
			status = fiber.StatusForbidden
			message = err.Error()
		case errors.Is(err, apperror.ErrUnauthorized):
			status = fiber.StatusUnauthorized
			message = err.Error()
		case errors.Is(err, apperror.ErrNotConnected):
			status = fiber.StatusForbidden
			message = err.Error()
		}

		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}
