package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/arogyam-health-service/internal/domain"
	"github.com/spec-kit/arogyam-health-service/internal/repository"
	apperrors "github.com/spec-kit/arogyam-health-service/pkg/util"
)

// VillageService manages the village registry.
type VillageService struct {
	villages repository.VillageRepository
}

// NewVillageService builds the service.
func NewVillageService(villages repository.VillageRepository) *VillageService {
	return &VillageService{villages: villages}
}

// VillageInput carries the fields of a village registration.
type VillageInput struct {
	Name            string
	District        string
	State           string
	Latitude        *float64
	Longitude       *float64
	Population      *int
	PrimaryLanguage string
}

// Create registers a new village.
func (s *VillageService) Create(ctx context.Context, input VillageInput) (*domain.Village, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.District) == "" {
		return nil, apperrors.NewValidationError("name and district are required", nil)
	}
	state := input.State
	if state == "" {
		state = defaultState
	}

	village := &domain.Village{
		Name:            strings.TrimSpace(input.Name),
		District:        input.District,
		State:           state,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Population:      input.Population,
		PrimaryLanguage: input.PrimaryLanguage,
	}
	if err := s.villages.Create(ctx, village); err != nil {
		return nil, apperrors.MapError(err)
	}
	return village, nil
}

// GetByID fetches a single village.
func (s *VillageService) GetByID(ctx context.Context, id int64) (*domain.Village, error) {
	village, err := s.villages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("village", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return village, nil
}

// List returns all villages.
func (s *VillageService) List(ctx context.Context) ([]domain.Village, error) {
	villages, err := s.villages.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return villages, nil
}

// ListByDistrict returns villages in the given district.
func (s *VillageService) ListByDistrict(ctx context.Context, district string) ([]domain.Village, error) {
	if strings.TrimSpace(district) == "" {
		return nil, apperrors.NewValidationError("district is required", nil)
	}
	villages, err := s.villages.ListByDistrict(ctx, district)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return villages, nil
}
