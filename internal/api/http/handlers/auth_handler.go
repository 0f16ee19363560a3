package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/arogyam-health-service/internal/api/dto"
	"github.com/spec-kit/arogyam-health-service/internal/auth"
	"github.com/spec-kit/arogyam-health-service/internal/service"
	apperrors "github.com/spec-kit/arogyam-health-service/pkg/util"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": loginResponse(result)})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.userService.Register(c.Context(), service.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Role:        req.Role,
		District:    req.District,
		State:       req.State,
		Village:     req.Village,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ValidateToken handles POST /api/auth/validate-token.
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	status, err := h.authService.ValidateToken(c.Context(), c.Get("Authorization"))
	if err != nil {
		return err
	}

	resp := dto.TokenValidationResponse{Valid: status.Valid}
	if status.Valid {
		expiresAt := status.ExpiresAt
		isExpired := status.IsExpired
		resp.Username = status.Username
		resp.UserID = status.UserID
		resp.Role = string(status.Role)
		resp.FullName = status.FullName
		resp.ExpiresAt = &expiresAt
		resp.IsExpired = &isExpired
	}
	return c.JSON(fiber.Map{"data": resp})
}

// RefreshToken handles POST /api/auth/refresh-token.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	result, err := h.authService.RefreshToken(c.Context(), c.Get("Authorization"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": loginResponse(result)})
}

// Logout handles POST /api/auth/logout. Always acknowledges: there is no
// server-side revocation, the client is simply told to discard the token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.authService.Logout(c.Context(), c.Get("Authorization"))
	return c.JSON(fiber.Map{"data": dto.LogoutResponse{Acknowledged: true}})
}

// RequestPasswordReset handles POST /api/auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	token, err := h.userService.RequestPasswordReset(c.Context(), req.Username)
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": fiber.Map{
			"resetToken": token.Token,
			"expiresAt":  token.ExpiresAt,
		},
	})
}

// ConfirmPasswordReset handles POST /api/auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.userService.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_reset"}})
}

// ChangePassword handles POST /api/auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.userService.ChangePassword(c.Context(), principal.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}

func loginResponse(result *service.LoginResult) dto.LoginResponse {
	return dto.LoginResponse{
		Token:     result.Token,
		TokenType: result.TokenType,
		Username:  result.Username,
		UserID:    result.UserID,
		Role:      string(result.Role),
		FullName:  result.FullName,
		ExpiresAt: result.ExpiresAt,
		ExpiresIn: result.ExpiresIn,
	}
}
