package auth

import (
	"github.com/effiwise/effimappro/model"
	"github.com/gofiber/fiber/v2"
)

// CookieName is the session cookie
const CookieName = "auth_token"

func setUser(c *fiber.Ctx, claims *Claims) {
	c.Locals("is_authenticated", true)
	c.Locals("user_id", claims.Subject)
	c.Locals("email", claims.Email)
	c.Locals("role", claims.Role)
}

// CurrentUser returns the user identified by the auth middleware
func CurrentUser(c *fiber.Ctx) (model.User, bool) {
	id, ok := c.Locals("user_id").(string)
	if !ok || id == "" {
		return model.User{}, false
	}
	email, _ := c.Locals("email").(string)
	role, _ := c.Locals("role").(string)
	return model.User{ID: id, Email: email, Role: role}, true
}

// RequireAuth middleware validates JWT token from cookie and blocks guests
func RequireAuth(c *fiber.Ctx) error {
	token := c.Cookies(CookieName)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired session",
		})
	}

	setUser(c, claims)
	return c.Next()
}

// OptionalAuth identifies the user if a token is present but does not block guests.
// This allows a single endpoint to serve both public and private data based on status.
func OptionalAuth(c *fiber.Ctx) error {
	token := c.Cookies(CookieName)
	if token == "" {
		c.Locals("is_authenticated", false)
		return c.Next()
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		// Treat invalid/expired tokens as guest access
		c.Locals("is_authenticated", false)
		return c.Next()
	}

	setUser(c, claims)
	return c.Next()
}

// RequireWrite blocks users whose role cannot create, update or delete
// entities. It must run after RequireAuth.
func RequireWrite(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}
	if !user.CanWrite() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}
	return c.Next()
}
