package domain

import "time"

// User is the domain model for platform accounts: field workers,
// health officials and administrators.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	PhoneNumber  string
	Email        string
	Role         UserRole
	District     string
	State        string
	Village      string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}
