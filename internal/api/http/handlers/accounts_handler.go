package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/referral-service/internal/api/dto"
	"github.com/spec-kit/referral-service/internal/auth"
	"github.com/spec-kit/referral-service/internal/service"
	apperrors "github.com/spec-kit/referral-service/pkg/util"
)

// AccountsHandler exposes registration, login and profile endpoints.
type AccountsHandler struct {
	auth     *service.AuthService
	profiles *service.ProfileService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService, profileService *service.ProfileService) *AccountsHandler {
	return &AccountsHandler{auth: authService, profiles: profileService}
}

// Register handles POST /auth/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, token, exp, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password, req.ReferralCode)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "account registered",
		"user":    dto.NewAccountResponse(account),
		"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Login handles POST /auth/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	account, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "login successful",
		"user":    dto.NewAccountResponse(account),
		"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Profile handles GET /user/profile.
func (h *AccountsHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	profile, err := h.profiles.GetProfile(c.UserContext(), principal.Account.ID)
	if err != nil {
		return err
	}

	return c.JSON(profile)
}
