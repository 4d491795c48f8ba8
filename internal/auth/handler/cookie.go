package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const cookieName = "jwt"

// setAuthCookie writes the token as an HTTP-only cookie. Cross-site
// deployments need secure + SameSite=None; local development relaxes both,
// selected by the single ENVIRONMENT flag.
func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string) {
	cookie := &fiber.Cookie{
		Name:     cookieName,
		Value:    token,
		MaxAge:   h.cfg.TokenExpiryHours * 3600,
		HTTPOnly: true,
	}

	if h.cfg.IsDevelopment() {
		cookie.Secure = false
		cookie.SameSite = fiber.CookieSameSiteLaxMode
	} else {
		cookie.Secure = true
		cookie.SameSite = fiber.CookieSameSiteNoneMode
	}

	c.Cookie(cookie)
}

func (h *AuthHandler) clearAuthCookie(c *fiber.Ctx) {
	cookie := &fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
	}

	if h.cfg.IsDevelopment() {
		cookie.SameSite = fiber.CookieSameSiteLaxMode
	} else {
		cookie.Secure = true
		cookie.SameSite = fiber.CookieSameSiteNoneMode
	}

	c.Cookie(cookie)
}
