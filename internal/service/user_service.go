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

const defaultState = "Northeast India"

// UserService manages account lifecycle: registration, profile updates,
// activation, password changes and resets.
type UserService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
}

// NewUserService builds the service.
func NewUserService(cfg config.AuthConfig, users repository.UserRepository, resets repository.PasswordResetRepository, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		resets:     resets,
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
		resetTTL:   time.Duration(cfg.PasswordResetTTLMinutes) * time.Minute,
	}
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username    string
	Password    string
	FullName    string
	PhoneNumber string
	Email       string
	Role        string
	District    string
	State       string
	Village     string
}

// Register creates a new platform account.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" || input.FullName == "" ||
		input.PhoneNumber == "" || input.District == "" {
		return nil, apperrors.NewValidationError("username, password, fullName, phoneNumber and district are required", nil)
	}

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, apperrors.NewValidationError("unrecognized role", map[string]any{"role": input.Role})
	}

	if exists, err := s.users.ExistsByUsername(ctx, input.Username); err != nil {
		return nil, apperrors.MapError(err)
	} else if exists {
		return nil, apperrors.NewConflict("user with this username or phone number already exists", nil)
	}
	if exists, err := s.users.ExistsByPhoneNumber(ctx, input.PhoneNumber); err != nil {
		return nil, apperrors.MapError(err)
	} else if exists {
		return nil, apperrors.NewConflict("user with this username or phone number already exists", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	state := input.State
	if state == "" {
		state = defaultState
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		FullName:     input.FullName,
		PhoneNumber:  input.PhoneNumber,
		Email:        input.Email,
		Role:         role,
		District:     input.District,
		State:        state,
		Village:      strings.TrimSpace(input.Village),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserRegistered, user.Username, user.ID, events.UserRegisteredPayload{
		Role:     user.Role,
		District: user.District,
	})
	s.logger.Info("user registered", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return user, nil
}

// GetByID fetches a single user.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.list(ctx, repository.UserListFilters{})
}

// ListActive returns active users only.
func (s *UserService) ListActive(ctx context.Context) ([]domain.User, error) {
	return s.list(ctx, repository.UserListFilters{ActiveOnly: true})
}

// ListByRole returns active users holding the given role.
func (s *UserService) ListByRole(ctx context.Context, roleStr string) ([]domain.User, error) {
	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return nil, apperrors.NewValidationError("unrecognized role", map[string]any{"role": roleStr})
	}
	return s.list(ctx, repository.UserListFilters{Role: &role, ActiveOnly: true})
}

// ListByDistrict returns active users assigned to the given district.
func (s *UserService) ListByDistrict(ctx context.Context, district string) ([]domain.User, error) {
	if strings.TrimSpace(district) == "" {
		return nil, apperrors.NewValidationError("district is required", nil)
	}
	return s.list(ctx, repository.UserListFilters{District: &district, ActiveOnly: true})
}

func (s *UserService) list(ctx context.Context, filters repository.UserListFilters) ([]domain.User, error) {
	users, err := s.users.List(ctx, filters)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// UpdateInput carries updatable profile fields. Username and password are
// immutable through this path.
type UpdateInput struct {
	FullName    *string
	PhoneNumber *string
	Email       *string
	District    *string
	State       *string
	Village     *string
}

// Update applies a partial profile update.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.PhoneNumber != nil && *input.PhoneNumber != user.PhoneNumber {
		exists, err := s.users.ExistsByPhoneNumber(ctx, *input.PhoneNumber)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if exists {
			return nil, apperrors.NewConflict("phone number already in use", nil)
		}
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.District != nil {
		user.District = *input.District
	}
	if input.State != nil {
		user.State = *input.State
	}
	if input.Village != nil {
		user.Village = *input.Village
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// SetActive activates or deactivates an account.
func (s *UserService) SetActive(ctx context.Context, id int64, active bool) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("user activation changed", zap.String("username", user.Username), zap.Bool("active", active))
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apperrors.NewValidationError("current and new password are required", nil)
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(currentPassword, user.PasswordHash) {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventPasswordChanged, user.Username, user.ID, nil)
	return nil
}

// RequestPasswordReset persists a single-use reset token for the account.
func (s *UserService) RequestPasswordReset(ctx context.Context, username string) (*repository.PasswordResetToken, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperrors.NewValidationError("username is required", nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, apperrors.MapError(err)
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *UserService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	if tokenStr == "" || newPassword == "" {
		return apperrors.NewValidationError("token and new password are required", nil)
	}

	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInvalidToken("unknown reset token")
		}
		return apperrors.MapError(err)
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewInvalidToken("reset token expired or already used")
	}

	user, err := s.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventPasswordChanged, user.Username, user.ID, nil)
	return s.resets.MarkUsed(ctx, token.ID)
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, username string, userID int64, payload interface{}) {
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
