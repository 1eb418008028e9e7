// handlers/bug.go
package handlers

import (
	"bug-bounty-system/middleware"
	"bug-bounty-system/services"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) createBug(c *fiber.Ctx) error {
	var in services.BugInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	bug, err := h.Bugs.CreateBug(ctx, middleware.UserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": bug})
}

func (h *Handler) listBugs(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	bugs, err := h.Bugs.ListBugs(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(bugs), "data": bugs})
}

func (h *Handler) getBug(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	detail, err := h.Bugs.GetBug(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": detail})
}
