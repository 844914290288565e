package middleware

import (
	"errors"
	"strings"

	"go-itstock/internal/model"
	"go-itstock/internal/service"
	"go-itstock/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Authenticator resolves a bearer token to the user it was issued for.
type Authenticator interface {
	Authenticate(tokenString string) (*model.User, error)
}

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		user, err := auth.Authenticate(parts[1])
		if err != nil {
			msg := "Invalid or expired token"
			switch {
			case errors.Is(err, service.ErrSessionReplaced):
				msg = "Session expired (logged out or logged in elsewhere)"
			case errors.Is(err, service.ErrUserInactive):
				msg = "User account is inactive"
			case errors.Is(err, jwt.ErrMissingToken):
				msg = "Missing authorization token"
			}
			return c.Status(401).JSON(fiber.Map{"error": msg})
		}

		// Role and privileges come from the database so revocations apply immediately.
		c.Locals("user_id", user.ID.String())
		c.Locals("username", user.Username)
		c.Locals("user_name", user.DisplayName())
		c.Locals("role_code", user.RoleCode())
		c.Locals("user_privileges", user.GetPrivilegeCodes())

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return RequireAnyPrivilege(requiredPrivilege)
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, userPriv := range privileges {
			for _, reqPriv := range requiredPrivileges {
				if userPriv == reqPriv {
					return c.Next()
				}
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges",
		})
	}
}
