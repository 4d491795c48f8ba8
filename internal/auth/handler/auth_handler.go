package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/tangimds/EMS/config"
	"github.com/tangimds/EMS/internal/auth/dto"
	"github.com/tangimds/EMS/internal/auth/service"
	apperrors "github.com/tangimds/EMS/internal/errors"
)

type AuthHandler struct {
	userService *service.UserService
	cfg         *config.Config
}

func NewAuthHandler(userService *service.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{userService: userService, cfg: cfg}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input dto.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid input",
		})
	}

	user, token, err := h.userService.Signup(c.Context(), input)
	if err != nil {
		if apperrors.IsValidation(err) || errors.Is(err, apperrors.ErrEmailAlreadyInUse) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("signup error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error during registration",
		})
	}

	h.setAuthCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    dto.NewUserOutput(user),
	})
}

func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var input dto.SigninInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid input",
		})
	}

	user, token, err := h.userService.Signin(c.Context(), input)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid credentials",
			})
		}
		log.Printf("signin error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error during login",
		})
	}

	h.setAuthCookie(c, token)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    dto.NewUserOutput(user),
	})
}

// SigninToken re-authenticates from an existing token. The one
// authentication path with a side effect: it stamps last_login_at.
func (h *AuthHandler) SigninToken(c *fiber.Ctx) error {
	user := CurrentUser(c)

	if err := h.userService.TouchLastLogin(c.Context(), user); err != nil {
		log.Printf("signin_token error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": "Server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":    true,
		"token": CurrentToken(c),
		"user":  dto.NewUserOutput(user),
	})
}

// Logout clears the cookie. Tokens are stateless, so nothing is revoked
// server-side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearAuthCookie(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}
