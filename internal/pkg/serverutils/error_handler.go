package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"erp-chatbot-be/internal/constant"
	"erp-chatbot-be/internal/pkg/logger"
)

// ErrorHandlerMiddleware converts errors escaping the handlers into wire
// responses. Client errors (4xx fiber errors) keep their message; everything
// else becomes a 500 with the fixed apology, with the real error logged.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
			return c.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		log.Error("http", "Unhandled request error", map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"error":  err.Error(),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(constant.UnexpectedErrorMessage))
	}
}
