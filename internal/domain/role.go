package domain

import "fmt"

// UserRole enumerates the field roles recognized by the platform.
type UserRole string

const (
	RoleAshaWorker     UserRole = "ASHA_WORKER"
	RoleCHW            UserRole = "CHW"
	RoleVolunteer      UserRole = "VOLUNTEER"
	RoleHealthOfficial UserRole = "HEALTH_OFFICIAL"
	RoleAdmin          UserRole = "ADMIN"
)

var roleDisplayNames = map[UserRole]string{
	RoleAshaWorker:     "ASHA Worker",
	RoleCHW:            "Community Health Worker",
	RoleVolunteer:      "Volunteer",
	RoleHealthOfficial: "Health Official",
	RoleAdmin:          "Administrator",
}

// ParseRole maps a wire string onto the closed role set. Unrecognized
// values take the single error path; no fallback role exists.
func ParseRole(value string) (UserRole, error) {
	role := UserRole(value)
	if _, ok := roleDisplayNames[role]; !ok {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

// Valid reports whether the role belongs to the closed set.
func (r UserRole) Valid() bool {
	_, ok := roleDisplayNames[r]
	return ok
}

// DisplayName returns the human-readable role label.
func (r UserRole) DisplayName() string {
	if name, ok := roleDisplayNames[r]; ok {
		return name
	}
	return string(r)
}
