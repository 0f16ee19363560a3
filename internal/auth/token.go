package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/arogyam-health-service/internal/domain"
)

// ErrInvalidToken marks tokens that are malformed, forged or carry
// unusable claims.
var ErrInvalidToken = errors.New("invalid token")

// ErrExpiredToken marks tokens whose signature verifies but whose expiry
// has passed. Kept separate from ErrInvalidToken so callers can tell
// "stale session" apart from "tampered token".
var ErrExpiredToken = errors.New("token expired")

// TokenManager issues, verifies and refreshes signed session tokens.
// The signing secret is fixed at construction and only ever read, so a
// single manager is safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes the JWT payload. Fields are strongly typed; coercion
// from the wire happens exactly once, inside Decode.
type Claims struct {
	UserID   int64           `json:"userId"`
	Role     domain.UserRole `json:"role"`
	FullName string          `json:"fullName,omitempty"`
	jwt.RegisteredClaims
}

// TokenInput carries the identity facts embedded at issuance. Timestamps
// are owned by the manager, never by the caller.
type TokenInput struct {
	Subject  string
	UserID   int64
	Role     domain.UserRole
	FullName string
}

// Issue builds and signs a token for the given identity. Pure computation,
// no shared mutable state.
func (tm *TokenManager) Issue(input TokenInput) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		UserID:   input.UserID,
		Role:     input.Role,
		FullName: input.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   input.Subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Validate reports whether the token's signature verifies. Expiry is
// deliberately not considered here; pair with IsExpired for "usable now".
func (tm *TokenManager) Validate(tokenStr string) bool {
	_, err := tm.parse(tokenStr)
	return err == nil
}

// IsExpired reports whether the token is past its expiry. Unparseable or
// unverifiable input counts as expired.
func (tm *TokenManager) IsExpired(tokenStr string) bool {
	claims, err := tm.parse(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.Before(tm.now())
}

// Decode verifies the signature and extracts typed claims. It succeeds on
// expired tokens so audit paths can still answer "who asked"; callers that
// need freshness must also check IsExpired.
func (tm *TokenManager) Decode(tokenStr string) (*Claims, error) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.UserID <= 0 || !claims.Role.Valid() ||
		claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Refresh re-issues a token carrying the same identity with a fresh expiry.
// The input must verify and must not yet be expired; refreshing an expired
// token is impossible by design.
func (tm *TokenManager) Refresh(tokenStr string) (string, time.Time, error) {
	claims, err := tm.Decode(tokenStr)
	if err != nil {
		return "", time.Time{}, err
	}
	if tm.IsExpired(tokenStr) {
		return "", time.Time{}, ErrExpiredToken
	}
	return tm.Issue(TokenInput{
		Subject:  claims.Subject,
		UserID:   claims.UserID,
		Role:     claims.Role,
		FullName: claims.FullName,
	})
}

// ExpiresAt returns the token's expiry when the signature verifies.
func (tm *TokenManager) ExpiresAt(tokenStr string) (time.Time, error) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}

// parse signature-verifies the token without validating time claims, so
// expiry stays an orthogonal check.
func (tm *TokenManager) parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
