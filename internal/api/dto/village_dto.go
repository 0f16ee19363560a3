package dto

import (
	"time"

	"github.com/spec-kit/arogyam-health-service/internal/domain"
)

// VillageRequest payload for registering a village.
type VillageRequest struct {
	Name            string   `json:"name"`
	District        string   `json:"district"`
	State           string   `json:"state,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Population      *int     `json:"population,omitempty"`
	PrimaryLanguage string   `json:"primaryLanguage,omitempty"`
}

// VillageResponse is the public view of a village.
type VillageResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	District        string    `json:"district"`
	State           string    `json:"state"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	Population      *int      `json:"population,omitempty"`
	PrimaryLanguage string    `json:"primaryLanguage,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewVillageResponse maps a domain village onto its public view.
func NewVillageResponse(village *domain.Village) VillageResponse {
	return VillageResponse{
		ID:              village.ID,
		Name:            village.Name,
		District:        village.District,
		State:           village.State,
		Latitude:        village.Latitude,
		Longitude:       village.Longitude,
		Population:      village.Population,
		PrimaryLanguage: village.PrimaryLanguage,
		CreatedAt:       village.CreatedAt,
	}
}
