package api

import (
	"strings"

	domain "github.com/example/tasks-api/domain/user"
	"github.com/example/tasks-api/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store the authenticated user in the Fiber context.
	UserContextKey = "user"
)

// AuthMiddleware resolves the bearer token to a user and stores it in the
// request context.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized("Authorization header is required")
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return unauthorized("Invalid authorization header format. Use: Bearer <token>")
		}

		token = strings.TrimSpace(token)
		if token == "" {
			return unauthorized("Token is required")
		}

		user, err := authPort.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(UserContextKey, user)
		return c.Next()
	}
}

// currentUser returns the user stored by AuthMiddleware.
func currentUser(c *fiber.Ctx) (*domain.Public, error) {
	user, ok := c.Locals(UserContextKey).(*domain.Public)
	if !ok || user == nil {
		return nil, unauthorized("User not authenticated")
	}
	return user, nil
}
