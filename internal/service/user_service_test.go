package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/arogyam-health-service/internal/auth"
	"github.com/spec-kit/arogyam-health-service/internal/domain"
	"github.com/spec-kit/arogyam-health-service/internal/events"
)

func newTestUserService(t *testing.T) (*UserService, *fakeUserRepo, *fakeResetRepo, *recordingDispatcher) {
	t.Helper()
	repo := newFakeUserRepo()
	resets := newFakeResetRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewUserService(testAuthConfig(), repo, resets, dispatcher, zap.NewNop())
	return svc, repo, resets, dispatcher
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username:    "chw7",
		Password:    "s3cret-pass",
		FullName:    "Anil Das",
		PhoneNumber: "9123456789",
		Role:        "CHW",
		District:    "Dibrugarh",
	}
}

func TestRegisterSuccess(t *testing.T) {
	svc, _, _, dispatcher := newTestUserService(t)

	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, domain.RoleCHW, user.Role)
	assert.Equal(t, "Northeast India", user.State, "state defaults when omitted")
	assert.True(t, user.IsActive)
	assert.True(t, auth.VerifyPassword("s3cret-pass", user.PasswordHash))
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.Len(t, dispatcher.byType(events.EventUserRegistered), 1)
}

func TestRegisterKeepsExplicitState(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)

	input := validRegisterInput()
	input.State = "Meghalaya"
	user, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Meghalaya", user.State)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)

	input := validRegisterInput()
	input.PhoneNumber = ""
	_, err := svc.Register(context.Background(), input)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)

	input := validRegisterInput()
	input.Role = "SUPERHERO"
	_, err := svc.Register(context.Background(), input)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestRegisterConflicts(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	t.Run("duplicate username", func(t *testing.T) {
		input := validRegisterInput()
		input.PhoneNumber = "9000000000"
		_, err := svc.Register(context.Background(), input)
		assert.Equal(t, "CONFLICT", errCode(t, err))
	})

	t.Run("duplicate phone number", func(t *testing.T) {
		input := validRegisterInput()
		input.Username = "chw8"
		_, err := svc.Register(context.Background(), input)
		assert.Equal(t, "CONFLICT", errCode(t, err))
	})
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)

	_, err := svc.GetByID(context.Background(), 404)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, repo, _, _ := newTestUserService(t)
	user := seedUser(t, repo, "asha1", "pw", true)

	newName := "Priya S."
	updated, err := svc.Update(context.Background(), user.ID, UpdateInput{FullName: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Priya S.", updated.FullName)
	assert.Equal(t, user.PhoneNumber, updated.PhoneNumber, "unset fields stay untouched")
	assert.Equal(t, user.District, updated.District)
}

func TestUpdateRejectsTakenPhoneNumber(t *testing.T) {
	svc, repo, _, _ := newTestUserService(t)
	seedUser(t, repo, "asha1", "pw", true)
	other := repo.add(domain.User{
		Username:    "chw2",
		PhoneNumber: "9999999999",
		Role:        domain.RoleCHW,
		IsActive:    true,
	})

	taken := "9876543210"
	_, err := svc.Update(context.Background(), other.ID, UpdateInput{PhoneNumber: &taken})
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestSetActive(t *testing.T) {
	svc, repo, _, _ := newTestUserService(t)
	user := seedUser(t, repo, "asha1", "pw", true)

	deactivated, err := svc.SetActive(context.Background(), user.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	reactivated, err := svc.SetActive(context.Background(), user.ID, true)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)
}

func TestListByRoleRejectsUnknownRole(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)

	_, err := svc.ListByRole(context.Background(), "WIZARD")
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestListActiveFiltersDeactivated(t *testing.T) {
	svc, repo, _, _ := newTestUserService(t)
	seedUser(t, repo, "asha1", "pw", true)
	repo.add(domain.User{Username: "dormant", Role: domain.RoleVolunteer, IsActive: false})

	users, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "asha1", users[0].Username)
}

func TestChangePassword(t *testing.T) {
	svc, repo, _, dispatcher := newTestUserService(t)
	user := seedUser(t, repo, "asha1", "old-pass", true)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), user.ID, "not-it", "new-pass")
		assert.Equal(t, "INVALID_CREDENTIALS", errCode(t, err))
	})

	t.Run("success", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), user.ID, "old-pass", "new-pass")
		require.NoError(t, err)

		stored, err := repo.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.True(t, auth.VerifyPassword("new-pass", stored.PasswordHash))
		assert.False(t, auth.VerifyPassword("old-pass", stored.PasswordHash))
		assert.Len(t, dispatcher.byType(events.EventPasswordChanged), 1)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	svc, repo, _, _ := newTestUserService(t)
	user := seedUser(t, repo, "asha1", "old-pass", true)

	token, err := svc.RequestPasswordReset(context.Background(), "asha1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, token.UserID)
	assert.NotEmpty(t, token.Token)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), token.Token, "fresh-pass"))

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword("fresh-pass", stored.PasswordHash))

	// single use
	err = svc.ConfirmPasswordReset(context.Background(), token.Token, "another-pass")
	assert.Equal(t, "INVALID_TOKEN", errCode(t, err))
}

func TestPasswordResetRejectsExpiredToken(t *testing.T) {
	svc, repo, resets, _ := newTestUserService(t)
	user := seedUser(t, repo, "asha1", "old-pass", true)

	token, err := svc.RequestPasswordReset(context.Background(), "asha1")
	require.NoError(t, err)

	expired := resets.tokens[token.Token]
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	resets.tokens[token.Token] = expired

	err = svc.ConfirmPasswordReset(context.Background(), token.Token, "fresh-pass")
	assert.Equal(t, "INVALID_TOKEN", errCode(t, err))

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword("old-pass", stored.PasswordHash))
}

func TestPasswordResetUnknownUser(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)

	_, err := svc.RequestPasswordReset(context.Background(), "nobody")
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestPasswordResetUnknownToken(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)

	err := svc.ConfirmPasswordReset(context.Background(), "bogus", "fresh-pass")
	assert.Equal(t, "INVALID_TOKEN", errCode(t, err))
}
