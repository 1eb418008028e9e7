// handlers/response.go
package handlers

import (
	"errors"
	"log"

	"bug-bounty-system/models"

	"github.com/gofiber/fiber/v2"
)

func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		if appErr.Kind == models.KindInternal {
			log.Printf("❌ [API] %s %s: %v", c.Method(), c.Path(), appErr)
		}
		return c.Status(appErr.StatusCode()).JSON(fiber.Map{
			"success": false,
			"message": appErr.Message,
		})
	}
	log.Printf("❌ [API] %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Something went wrong!",
	})
}

// ErrorHandler renders errors that escape the handlers (body limit, unknown routes, panics).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		message := fiberErr.Message
		switch fiberErr.Code {
		case fiber.StatusRequestEntityTooLarge:
			message = "Request payload too large. Try a smaller file or use a link instead."
		case fiber.StatusNotFound:
			message = "Route not found"
		}
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
	return respondError(c, err)
}
