package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/arogyam-health-service/internal/repository"
	apperrors "github.com/spec-kit/arogyam-health-service/pkg/util"
)

const principalKey = "auth_principal"

// bearerPrefix is the only accepted authorization scheme. Extraction strips
// exactly this prefix; anything else is rejected, never silently defaulted.
const bearerPrefix = "Bearer "

// Principal is the decoded, verified identity of the caller, rebuilt fresh
// on every validated request.
type Principal struct {
	UserID   int64
	Username string
	Role     string
	FullName string
}

// ExtractBearerToken strips the "Bearer " prefix from an Authorization
// header value.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewValidationError("missing authorization header", nil)
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", apperrors.NewValidationError("invalid authorization header format", nil)
	}
	return header[len(bearerPrefix):], nil
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token, err := ExtractBearerToken(c.Get("Authorization"))
	if err != nil {
		return err
	}

	claims, err := m.tokens.Decode(token)
	if err != nil {
		return apperrors.NewInvalidToken("")
	}
	if m.tokens.IsExpired(token) {
		return apperrors.NewExpiredToken()
	}

	user, err := m.users.GetByUsername(c.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("account no longer exists")
		}
		return apperrors.MapError(err)
	}
	if !user.IsActive {
		return apperrors.NewUnauthorized("account is deactivated")
	}

	c.Locals(principalKey, &Principal{
		UserID:   claims.UserID,
		Username: claims.Subject,
		Role:     string(claims.Role),
		FullName: claims.FullName,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
