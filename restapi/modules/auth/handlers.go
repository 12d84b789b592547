package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logout clears the auth cookie and forgets the user's application state
func Logout(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, ok := CurrentUser(c); ok {
			sessions.Drop(c.UserContext(), user.ID)
		}

		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    "",
			Expires:  time.Now().Add(-1 * time.Hour),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   false,
			SameSite: "Lax",
			Path:     "/",
		})
		return c.JSON(fiber.Map{"message": "Logged out successfully"})
	}
}

// Me returns the signed-in user
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
		}

		return c.JSON(UserResponse{ID: user.ID, Email: user.Email, Role: user.Role})
	}
}

// SetAuthCookie sets the authentication cookie for a user session.
func SetAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   int(GetJWTExpirationTime().Seconds()),
		Path:     "/",
	})
}
