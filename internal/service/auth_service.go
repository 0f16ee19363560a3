package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/arogyam-health-service/internal/auth"
	"github.com/spec-kit/arogyam-health-service/internal/config"
	"github.com/spec-kit/arogyam-health-service/internal/domain"
	"github.com/spec-kit/arogyam-health-service/internal/events"
	"github.com/spec-kit/arogyam-health-service/internal/repository"
	apperrors "github.com/spec-kit/arogyam-health-service/pkg/util"
)

// TokenType is the scheme clients present tokens under.
const TokenType = "Bearer"

// AuthService is the authentication gateway: it orchestrates credential
// verification, token issuance, and per-request token validation/refresh.
// It holds no per-session state; every request is judged on its own token.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	TokenType string
	Username  string
	UserID    int64
	Role      domain.UserRole
	FullName  string
	ExpiresAt time.Time
	ExpiresIn int64
}

// TokenStatus reports the outcome of token inspection. Valid covers the
// signature only; IsExpired is reported separately so clients can tell
// "needs refresh" apart from "never trust this".
type TokenStatus struct {
	Valid     bool
	Username  string
	UserID    int64
	Role      domain.UserRole
	FullName  string
	ExpiresAt time.Time
	IsExpired bool
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords are indistinguishable in the result; the real cause
// is only logged server-side.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("login attempt for unknown username", zap.String("username", username))
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}
	if !user.IsActive {
		s.logger.Warn("login attempt for deactivated account", zap.String("username", username))
		return nil, apperrors.NewInvalidCredentials()
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.logger.Warn("failed login attempt", zap.String("username", username))
		return nil, apperrors.NewInvalidCredentials()
	}

	token, expiresAt, err := s.tokenMgr.Issue(auth.TokenInput{
		Subject:  user.Username,
		UserID:   user.ID,
		Role:     user.Role,
		FullName: user.FullName,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	// Last-login bookkeeping is best-effort; a directory hiccup must not
	// fail an otherwise successful login.
	if err := s.users.RecordLogin(ctx, user.Username, time.Now()); err != nil {
		s.logger.Warn("failed to record last login", zap.String("username", username), zap.Error(err))
	}

	s.publish(ctx, events.EventUserLoggedIn, user.Username, user.ID, events.UserLoggedInPayload{
		Role:      user.Role,
		ExpiresAt: expiresAt,
	})
	s.logger.Info("user logged in", zap.String("username", username))

	return &LoginResult{
		Token:     token,
		TokenType: TokenType,
		Username:  user.Username,
		UserID:    user.ID,
		Role:      user.Role,
		FullName:  user.FullName,
		ExpiresAt: expiresAt,
		ExpiresIn: int64(time.Until(expiresAt).Seconds()),
	}, nil
}

// ValidateToken inspects a bearer header. Header-shape problems are the
// caller's fault (validation error); a token that fails signature
// verification is reported as not valid rather than treated as an error.
func (s *AuthService) ValidateToken(ctx context.Context, bearerHeader string) (*TokenStatus, error) {
	token, err := auth.ExtractBearerToken(bearerHeader)
	if err != nil {
		return nil, err
	}

	if !s.tokenMgr.Validate(token) {
		return &TokenStatus{Valid: false}, nil
	}

	claims, err := s.tokenMgr.Decode(token)
	if err != nil {
		// signature verified but claims are unusable
		return &TokenStatus{Valid: false}, nil
	}

	return &TokenStatus{
		Valid:     true,
		Username:  claims.Subject,
		UserID:    claims.UserID,
		Role:      claims.Role,
		FullName:  claims.FullName,
		ExpiresAt: claims.ExpiresAt.Time,
		IsExpired: s.tokenMgr.IsExpired(token),
	}, nil
}

// RefreshToken extends a session without re-presenting credentials. An
// expired token cannot be refreshed; the caller must log in again.
func (s *AuthService) RefreshToken(ctx context.Context, bearerHeader string) (*LoginResult, error) {
	token, err := auth.ExtractBearerToken(bearerHeader)
	if err != nil {
		return nil, err
	}

	newToken, expiresAt, err := s.tokenMgr.Refresh(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.NewExpiredToken()
		}
		return nil, apperrors.NewInvalidToken("")
	}

	claims, err := s.tokenMgr.Decode(newToken)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventTokenRefreshed, claims.Subject, claims.UserID, events.TokenRefreshedPayload{
		ExpiresAt: expiresAt,
	})
	s.logger.Info("token refreshed", zap.String("username", claims.Subject))

	return &LoginResult{
		Token:     newToken,
		TokenType: TokenType,
		Username:  claims.Subject,
		UserID:    claims.UserID,
		Role:      claims.Role,
		FullName:  claims.FullName,
		ExpiresAt: expiresAt,
		ExpiresIn: int64(time.Until(expiresAt).Seconds()),
	}, nil
}

// Logout acknowledges a logout. There is no server-side revocation: the
// token stays valid until its own expiry and the client is expected to
// discard it. Identity is decoded best-effort for the audit trail.
func (s *AuthService) Logout(ctx context.Context, bearerHeader string) {
	token, err := auth.ExtractBearerToken(bearerHeader)
	if err != nil {
		s.publish(ctx, events.EventUserLoggedOut, "", 0, events.UserLoggedOutPayload{TokenVerified: false})
		return
	}

	claims, err := s.tokenMgr.Decode(token)
	if err != nil {
		s.publish(ctx, events.EventUserLoggedOut, "", 0, events.UserLoggedOutPayload{TokenVerified: false})
		return
	}

	s.publish(ctx, events.EventUserLoggedOut, claims.Subject, claims.UserID, events.UserLoggedOutPayload{TokenVerified: true})
	s.logger.Info("user logged out", zap.String("username", claims.Subject))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, username string, userID int64, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Username:  username,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
