package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/foodcourt/internal/apperr"
)

// ErrorHandler maps application errors onto HTTP responses. Wired into
// fiber.Config so handlers can simply return errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case apperr.KindValidation:
			body := fiber.Map{"success": false, "message": ae.Message}
			if len(ae.Fields) > 0 {
				body["errors"] = ae.Fields
			}
			return c.Status(fiber.StatusBadRequest).JSON(body)
		case apperr.KindNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": ae.Message})
		case apperr.KindUnauthorized:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": ae.Message})
		case apperr.KindInvalidTransition, apperr.KindInvalidOperation:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": ae.Message})
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"success": false, "message": fe.Message})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "internal server error",
	})
}
