package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleAcceptsClosedSet(t *testing.T) {
	cases := map[string]UserRole{
		"ASHA_WORKER":     RoleAshaWorker,
		"CHW":             RoleCHW,
		"VOLUNTEER":       RoleVolunteer,
		"HEALTH_OFFICIAL": RoleHealthOfficial,
		"ADMIN":           RoleAdmin,
	}
	for value, want := range cases {
		role, err := ParseRole(value)
		require.NoError(t, err, value)
		assert.Equal(t, want, role)
		assert.True(t, role.Valid())
	}
}

func TestParseRoleRejectsUnknownValues(t *testing.T) {
	for _, value := range []string{"", "admin", "ASHA WORKER", "SUPERHERO"} {
		_, err := ParseRole(value)
		assert.Error(t, err, value)
	}
}

func TestRoleDisplayName(t *testing.T) {
	assert.Equal(t, "ASHA Worker", RoleAshaWorker.DisplayName())
	assert.Equal(t, "Community Health Worker", RoleCHW.DisplayName())
	assert.Equal(t, "Administrator", RoleAdmin.DisplayName())
	assert.Equal(t, "MYSTERY", UserRole("MYSTERY").DisplayName())
}
