package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/services"
)

// parseBody decodes a JSON body into out. An empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// respondError writes err as a JSON error body with the status its kind maps to.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		log.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	}

	body := fiber.Map{
		"success": false,
		"message": svcErr.Message,
	}
	if len(svcErr.Fields) > 0 {
		body["errors"] = svcErr.Fields
	}
	return c.Status(status).JSON(body)
}
