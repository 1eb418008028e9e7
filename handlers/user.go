// handlers/user.go
package handlers

import (
	"bug-bounty-system/middleware"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) getMe(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	profile, err := h.Users.GetProfile(ctx, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": profile})
}

func health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "message": "Server is running"})
}
