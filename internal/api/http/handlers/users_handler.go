package handlers

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/arogyam-health-service/internal/api/dto"
	"github.com/spec-kit/arogyam-health-service/internal/auth"
	"github.com/spec-kit/arogyam-health-service/internal/domain"
	"github.com/spec-kit/arogyam-health-service/internal/service"
	apperrors "github.com/spec-kit/arogyam-health-service/pkg/util"
)

// UsersHandler exposes user directory endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// ListActive handles GET /api/users/active.
func (h *UsersHandler) ListActive(c *fiber.Ctx) error {
	users, err := h.users.ListActive(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// ListByRole handles GET /api/users/role/:role.
func (h *UsersHandler) ListByRole(c *fiber.Ctx) error {
	users, err := h.users.ListByRole(c.Context(), c.Params("role"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// ListByDistrict handles GET /api/users/district/:district.
func (h *UsersHandler) ListByDistrict(c *fiber.Ctx) error {
	district, err := decodeParam(c, "district")
	if err != nil {
		return err
	}
	users, err := h.users.ListByDistrict(c.Context(), district)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// Get handles GET /api/users/:id. Callers may read their own record;
// admins and health officials may read anyone's.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := h.requireSelfOrRole(c, domain.RoleAdmin, domain.RoleHealthOfficial)
	if err != nil {
		return err
	}

	user, err := h.users.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update handles PUT /api/users/:id. Self-service or admin.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := h.requireSelfOrRole(c, domain.RoleAdmin)
	if err != nil {
		return err
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.Update(c.Context(), id, service.UpdateInput{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		District:    req.District,
		State:       req.State,
		Village:     req.Village,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Activate handles POST /api/users/:id/activate.
func (h *UsersHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

// Deactivate handles POST /api/users/:id/deactivate.
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *UsersHandler) setActive(c *fiber.Ctx, active bool) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	user, err := h.users.SetActive(c.Context(), id, active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

func (h *UsersHandler) requireSelfOrRole(c *fiber.Ctx, roles ...domain.UserRole) (int64, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return 0, apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return 0, err
	}
	if principal.UserID != id && !principal.HasAnyRole(roles...) {
		return 0, apperrors.NewForbidden("insufficient role")
	}
	return id, nil
}

func parseIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid user id", nil)
	}
	return id, nil
}

func decodeParam(c *fiber.Ctx, name string) (string, error) {
	value, err := url.PathUnescape(c.Params(name))
	if err != nil || value == "" {
		return "", apperrors.NewValidationError("invalid "+name, nil)
	}
	return value, nil
}

func userResponses(users []domain.User) []dto.UserResponse {
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.NewUserResponse(&users[i]))
	}
	return resp
}
