//go:build unit

package user_test

import (
	"testing"

	"hotel-reservation-engine/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		for _, s := range []string{"customer", "operator", "admin"} {
			role, err := user.NewRole(s)
			require.NoError(t, err)
			assert.Equal(t, s, role.String())
		}

		_, err := user.NewRole("viewer")
		assert.ErrorIs(t, err, user.ErrInvalidRole)
	})

	t.Run("at least", func(t *testing.T) {
		assert.True(t, user.RoleAdmin.AtLeast(user.RoleOperator))
		assert.True(t, user.RoleOperator.AtLeast(user.RoleOperator))
		assert.False(t, user.RoleCustomer.AtLeast(user.RoleOperator))
		assert.False(t, user.Role("ghost").AtLeast(user.RoleCustomer))
	})
}

func TestEmail(t *testing.T) {
	e, err := user.NewEmail("  guest@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", e.Value())

	_, err = user.NewEmail("not-an-email")
	assert.ErrorIs(t, err, user.ErrInvalidEmail)
}
