package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tangimds/EMS/internal/auth/domain"
)

const (
	localsUserKey  = "auth_user"
	localsTokenKey = "auth_token"

	authScheme = "JWT"
)

// extractToken locates the bearer token: the Authorization header with the
// JWT scheme first, then the jwt cookie.
func extractToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], authScheme) {
			return strings.TrimSpace(parts[1])
		}
	}

	return c.Cookies(cookieName)
}

// RequireAuth rejects the request unless it carries a verifiable token that
// still resolves to an existing user. On success the user record and the
// presented token are stored in the request locals; downstream handlers
// pass the identity explicitly into every service call.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
		})
	}

	user, err := h.userService.Authenticate(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
		})
	}

	c.Locals(localsUserKey, user)
	c.Locals(localsTokenKey, token)

	return c.Next()
}

// CurrentUser returns the identity resolved by RequireAuth. Only valid on
// routes behind that middleware.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(localsUserKey).(*domain.User)
	return user
}

// CurrentToken returns the token the request authenticated with.
func CurrentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localsTokenKey).(string)
	return token
}
