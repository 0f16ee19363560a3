package events

import (
	"time"

	"github.com/spec-kit/arogyam-health-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventUserLoggedIn    EventType = "user_logged_in"
	EventTokenRefreshed  EventType = "token_refreshed"
	EventUserLoggedOut   EventType = "user_logged_out"
	EventPasswordChanged EventType = "password_changed"
)

// Event represents an authentication audit record emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Username  string      `json:"username"`
	UserID    int64       `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Role     domain.UserRole `json:"role"`
	District string          `json:"district"`
}

// UserLoggedInPayload payload.
type UserLoggedInPayload struct {
	Role      domain.UserRole `json:"role"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// TokenRefreshedPayload payload.
type TokenRefreshedPayload struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// UserLoggedOutPayload payload. TokenVerified is false when logout was
// acknowledged without a decodable token.
type UserLoggedOutPayload struct {
	TokenVerified bool `json:"token_verified"`
}
