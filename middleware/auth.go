// middleware/auth.go
package middleware

import (
	"context"
	"log"
	"strings"

	"bug-bounty-system/models"
	"bug-bounty-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const UserIDLocal = "user_id"

// UserEnsurer creates the local account for an identity the first time it is seen.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, id, name, email string) (*models.User, error)
}

// TokenValidator resolves a caller's bearer token to an identity.
type TokenValidator interface {
	ValidateToken(ctx context.Context, accessToken string) (*services.ValidateResponse, error)
}

// UserID returns the authenticated caller set by one of the auth middlewares.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDLocal).(string)
	return id
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// UserContextMiddleware trusts the identity headers set by the gateway.
func UserContextMiddleware(users UserEnsurer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := utils.CopyString(strings.TrimSpace(c.Get("X-User-ID")))
		if userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", c.Path())
			return unauthorized(c, "Not authorized, missing user identity")
		}

		if _, err := users.EnsureUser(c.UserContext(), userID, utils.CopyString(c.Get("X-User-Name")), utils.CopyString(c.Get("X-User-Email"))); err != nil {
			log.Printf("❌ [USER_CTX] failed to ensure account %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "failed to load user account",
			})
		}

		c.Locals(UserIDLocal, userID)
		return c.Next()
	}
}

// BearerAuthMiddleware validates the caller's own bearer token with the auth service.
func BearerAuthMiddleware(validator TokenValidator, users UserEnsurer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" || token == "" || token == authHeader {
			return unauthorized(c, "Not authorized, no token")
		}

		resp, err := validator.ValidateToken(c.UserContext(), utils.CopyString(token))
		if err != nil {
			log.Printf("[BEARER_AUTH] ❌ validation failed for %s: %v", c.Path(), err)
			return unauthorized(c, "Not authorized, token failed")
		}

		if _, err := users.EnsureUser(c.UserContext(), resp.UserID, resp.Name, resp.Email); err != nil {
			log.Printf("[BEARER_AUTH] ❌ failed to ensure account %s: %v", resp.UserID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "failed to load user account",
			})
		}

		c.Locals(UserIDLocal, resp.UserID)
		return c.Next()
	}
}
