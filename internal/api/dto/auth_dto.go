package dto

import "time"

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by login and refresh.
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	Username  string    `json:"username"`
	UserID    int64     `json:"userId"`
	Role      string    `json:"role"`
	FullName  string    `json:"fullName,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
	ExpiresIn int64     `json:"expiresIn"`
}

// TokenValidationResponse reports token inspection. Identity fields are
// present only when the signature verified; isExpired is independent of
// validity so clients can distinguish stale from forged.
type TokenValidationResponse struct {
	Valid     bool       `json:"valid"`
	Username  string     `json:"username,omitempty"`
	UserID    int64      `json:"userId,omitempty"`
	Role      string     `json:"role,omitempty"`
	FullName  string     `json:"fullName,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	IsExpired *bool      `json:"isExpired,omitempty"`
}

// LogoutResponse acknowledges a logout request.
type LogoutResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// PasswordResetRequest payload for initiating a reset.
type PasswordResetRequest struct {
	Username string `json:"username"`
}

// PasswordResetConfirmRequest payload for confirming a reset.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
