package dto

import (
	"time"

	"github.com/spec-kit/arogyam-health-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
	District    string `json:"district"`
	State       string `json:"state,omitempty"`
	Village     string `json:"village,omitempty"`
}

// UserUpdateRequest payload for profile updates. Pointer fields
// distinguish "absent" from "set to empty".
type UserUpdateRequest struct {
	FullName    *string `json:"fullName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Email       *string `json:"email,omitempty"`
	District    *string `json:"district,omitempty"`
	State       *string `json:"state,omitempty"`
	Village     *string `json:"village,omitempty"`
}

// UserResponse is the public view of an account. The password hash never
// leaves the service.
type UserResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"fullName"`
	PhoneNumber string     `json:"phoneNumber"`
	Email       string     `json:"email,omitempty"`
	Role        string     `json:"role"`
	RoleDisplay string     `json:"roleDisplayName"`
	District    string     `json:"district"`
	State       string     `json:"state"`
	Village     string     `json:"village,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
}

// NewUserResponse maps a domain user onto its public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		FullName:    user.FullName,
		PhoneNumber: user.PhoneNumber,
		Email:       user.Email,
		Role:        string(user.Role),
		RoleDisplay: user.Role.DisplayName(),
		District:    user.District,
		State:       user.State,
		Village:     user.Village,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		LastLogin:   user.LastLogin,
	}
}
