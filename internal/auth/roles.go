package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/arogyam-health-service/internal/domain"
	apperrors "github.com/spec-kit/arogyam-health-service/pkg/util"
)

// RequireAuthenticated ensures a principal was loaded by the middleware.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the principal holds one of the allowed roles.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[domain.UserRole(principal.Role)]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// HasAnyRole reports whether the principal holds one of the given roles.
// Used by handlers that allow either self-access or privileged access.
func (p *Principal) HasAnyRole(roles ...domain.UserRole) bool {
	for _, role := range roles {
		if domain.UserRole(p.Role) == role {
			return true
		}
	}
	return false
}
