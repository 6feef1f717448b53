package api

import (
	"strings"

	"github.com/example/todo-api/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
)

// AuthMiddleware creates a middleware that validates JWT tokens. No handler
// behind it runs until verification yields an identity; every failure mode
// returns the same generic 401 so the response never reveals which check
// failed.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c)
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c)
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return unauthorized(c)
		}

		claims, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			return unauthorized(c)
		}

		// Store claims in context for use in handlers
		c.Locals(UserContextKey, claims)

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "Invalid or expired token",
	})
}
