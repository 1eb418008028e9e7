// handlers/routes.go
package handlers

import (
	"context"
	"time"

	"bug-bounty-system/services"

	"github.com/gofiber/fiber/v2"
)

// Handler adapts the services to HTTP.
type Handler struct {
	Bugs        *services.BugService
	Submissions *services.SubmissionService
	Approvals   *services.ApprovalService
	Users       *services.UserService
	Timeout     time.Duration
}

func (h *Handler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.Timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.Timeout)
}

// SetupRoutes mounts the API under /api. auth resolves the caller on the secured routes.
func SetupRoutes(app *fiber.App, h *Handler, auth fiber.Handler) {
	api := app.Group("/api")

	// 🔓 Public
	api.Get("/health", health)
	api.Get("/bugs", h.listBugs)
	api.Get("/bugs/:id", h.getBug)
	api.Get("/bugs/:id/submissions", h.listSubmissions)

	// 🔐 Caller identity required
	api.Post("/bugs", auth, h.createBug)
	api.Post("/bugs/:id/submissions", auth, h.createSubmission)
	api.Post("/submissions/:id/approve", auth, h.approveSubmission)
	api.Get("/users/me", auth, h.getMe)
}
