package guard_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/virtualpet/storefront/guard"
	"github.com/virtualpet/storefront/session"
)

func authedSnap(role session.Role) session.Snapshot {
	return session.Snapshot{
		Token: oauth2.Token{AccessToken: "access-1"},
		Role:  role,
	}
}

func TestDecide(t *testing.T) {
	staffOnly := []session.Role{session.RoleStaff}

	t.Run("unauthenticated redirects to login", func(t *testing.T) {
		d := guard.Decide(staffOnly, session.Snapshot{})
		require.Equal(t, guard.RedirectToLogin, d)
	})

	t.Run("wrong role redirects home", func(t *testing.T) {
		d := guard.Decide(staffOnly, authedSnap(session.RoleCustomer))
		require.Equal(t, guard.RedirectToHome, d)
	})

	t.Run("matching role allowed", func(t *testing.T) {
		d := guard.Decide(staffOnly, authedSnap(session.RoleStaff))
		require.Equal(t, guard.Allow, d)
	})

	t.Run("any of several roles allowed", func(t *testing.T) {
		both := []session.Role{session.RoleCustomer, session.RoleStaff}
		require.Equal(t, guard.Allow, guard.Decide(both, authedSnap(session.RoleCustomer)))
		require.Equal(t, guard.Allow, guard.Decide(both, authedSnap(session.RoleStaff)))
	})

	t.Run("no required roles means any authenticated session", func(t *testing.T) {
		d := guard.Decide(nil, authedSnap(session.RoleCustomer))
		require.Equal(t, guard.Allow, d)
	})

	t.Run("role not yet rehydrated is allowed through", func(t *testing.T) {
		d := guard.Decide(staffOnly, authedSnap(""))
		require.Equal(t, guard.Allow, d)
	})

	t.Run("logout then guarded view redirects to login", func(t *testing.T) {
		// After logout the snapshot carries no token at all.
		d := guard.Decide(nil, session.Snapshot{})
		require.Equal(t, guard.RedirectToLogin, d)
	})
}
