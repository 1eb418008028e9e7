// handlers/submission.go
package handlers

import (
	"bug-bounty-system/middleware"
	"bug-bounty-system/services"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) createSubmission(c *fiber.Ctx) error {
	var in services.SubmissionInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	sub, err := h.Submissions.CreateSubmission(ctx, middleware.UserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": sub})
}

func (h *Handler) listSubmissions(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	subs, err := h.Submissions.ListSubmissions(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(subs), "data": subs})
}

func (h *Handler) approveSubmission(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.Approvals.Approve(ctx, middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Submission approved successfully",
		"data":    result,
	})
}
