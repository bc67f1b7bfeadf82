package middleware

import (
	"errors"
	"strings"

	"agriconnect-api/internal/model"
	"agriconnect-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth is middleware that validates the bearer token and loads the caller's account
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		user, err := auth.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
			}
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}

		// Set user info in context for downstream handlers
		c.Locals("user", user)
		c.Locals("user_id", user.ID.String())
		return c.Next()
	}
}

// RequireCapability checks that the authenticated user holds the given role flag
func RequireCapability(required model.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*model.User)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
		}

		allowed := false
		switch required {
		case model.CapabilityFarmer:
			allowed = user.IsFarmer
		case model.CapabilityBuyer:
			allowed = user.IsBuyer
		}
		if !allowed {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires '" + string(required) + "' capability",
			})
		}
		return c.Next()
	}
}
