package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/arogyam-health-service/internal/api/dto"
	"github.com/spec-kit/arogyam-health-service/internal/domain"
	"github.com/spec-kit/arogyam-health-service/internal/service"
	apperrors "github.com/spec-kit/arogyam-health-service/pkg/util"
)

// VillagesHandler exposes the village registry endpoints.
type VillagesHandler struct {
	villages *service.VillageService
}

// NewVillagesHandler constructs handler.
func NewVillagesHandler(villages *service.VillageService) *VillagesHandler {
	return &VillagesHandler{villages: villages}
}

// Create handles POST /api/villages.
func (h *VillagesHandler) Create(c *fiber.Ctx) error {
	var req dto.VillageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	village, err := h.villages.Create(c.Context(), service.VillageInput{
		Name:            req.Name,
		District:        req.District,
		State:           req.State,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Population:      req.Population,
		PrimaryLanguage: req.PrimaryLanguage,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewVillageResponse(village)})
}

// Get handles GET /api/villages/:id.
func (h *VillagesHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.NewValidationError("invalid village id", nil)
	}

	village, err := h.villages.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewVillageResponse(village)})
}

// List handles GET /api/villages.
func (h *VillagesHandler) List(c *fiber.Ctx) error {
	villages, err := h.villages.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": villageResponses(villages)})
}

// ListByDistrict handles GET /api/villages/district/:district.
func (h *VillagesHandler) ListByDistrict(c *fiber.Ctx) error {
	district, err := url.PathUnescape(c.Params("district"))
	if err != nil || district == "" {
		return apperrors.NewValidationError("invalid district", nil)
	}

	villages, err := h.villages.ListByDistrict(c.Context(), district)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": villageResponses(villages)})
}

func villageResponses(villages []domain.Village) []dto.VillageResponse {
	resp := make([]dto.VillageResponse, 0, len(villages))
	for i := range villages {
		resp = append(resp, dto.NewVillageResponse(&villages[i]))
	}
	return resp
}
