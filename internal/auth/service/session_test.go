package service

import (
	"context"
	"testing"
	"time"

	"github.com/brianwits/cowsaltpro/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestSessionLogin(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &SessionService{Store: st}
	ctx := context.Background()

	seedUser(t, st, "alice", "correct horse", domain.RoleManager)

	t.Run("unknown username and wrong password are indistinguishable", func(t *testing.T) {
		_, unknownErr := svc.Login(ctx, "nobody", "whatever")
		_, wrongErr := svc.Login(ctx, "alice", "battery staple")
		require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
		require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
		require.Equal(t, unknownErr, wrongErr)
	})

	t.Run("valid credentials start a session", func(t *testing.T) {
		res, err := svc.Login(ctx, "alice", "correct horse")
		require.NoError(t, err)
		require.NotEmpty(t, res.Token)
		require.Equal(t, "alice", res.User.Username)
		require.False(t, res.MustChangePassword)

		// Sensitive material never leaves the service.
		require.True(t, res.User.Credential.IsZero())
		require.Empty(t, res.User.SessionTokenHash)

		// Last login is stamped.
		stored, err := st.Users().GetUserByID(ctx, res.User.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.LastLoginAt)
	})

	t.Run("second login replaces the first session", func(t *testing.T) {
		first, err := svc.Login(ctx, "alice", "correct horse")
		require.NoError(t, err)
		second, err := svc.Login(ctx, "alice", "correct horse")
		require.NoError(t, err)
		require.NotEqual(t, first.Token, second.Token)

		_, err = svc.Resume(ctx, first.User.ID, first.Token)
		require.ErrorIs(t, err, ErrNotAuthenticated)

		got, err := svc.Resume(ctx, second.User.ID, second.Token)
		require.NoError(t, err)
		require.Equal(t, "alice", got.Username)
	})

	t.Run("leading and trailing whitespace in username is ignored", func(t *testing.T) {
		_, err := svc.Login(ctx, "  alice  ", "correct horse")
		require.NoError(t, err)
	})
}

func TestSessionResume(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &SessionService{Store: st}
	ctx := context.Background()

	u := seedUser(t, st, "bob", "hunter2hunter2", domain.RoleCashier)

	t.Run("no session on record", func(t *testing.T) {
		_, err := svc.Resume(ctx, u.ID, "sometoken")
		require.ErrorIs(t, err, ErrNotAuthenticated)
	})

	res, err := svc.Login(ctx, "bob", "hunter2hunter2")
	require.NoError(t, err)

	t.Run("valid token resumes", func(t *testing.T) {
		got, err := svc.Resume(ctx, u.ID, res.Token)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.True(t, got.Credential.IsZero())
	})

	t.Run("empty inputs are rejected", func(t *testing.T) {
		_, err := svc.Resume(ctx, "", res.Token)
		require.ErrorIs(t, err, ErrNotAuthenticated)
		_, err = svc.Resume(ctx, u.ID, "")
		require.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		_, err := svc.Resume(ctx, u.ID, res.Token+"x")
		require.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		_, err := svc.Resume(ctx, "no-such-id", res.Token)
		require.ErrorIs(t, err, ErrNotAuthenticated)
	})
}

func TestSessionExpiry(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	seedUser(t, st, "carol", "pass-word-123", domain.RoleClerk)

	t.Run("expired session does not resume", func(t *testing.T) {
		svc := &SessionService{Store: st, TokenTTL: -time.Minute}
		res, err := svc.Login(ctx, "carol", "pass-word-123")
		require.NoError(t, err)

		_, err = svc.Resume(ctx, res.User.ID, res.Token)
		require.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("zero TTL disables expiry", func(t *testing.T) {
		svc := &SessionService{Store: st}
		res, err := svc.Login(ctx, "carol", "pass-word-123")
		require.NoError(t, err)

		stored, err := st.Users().GetUserByID(ctx, res.User.ID)
		require.NoError(t, err)
		require.Nil(t, stored.SessionExpiresAt)

		_, err = svc.Resume(ctx, res.User.ID, res.Token)
		require.NoError(t, err)
	})
}

func TestSessionLogout(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &SessionService{Store: st}
	ctx := context.Background()

	u := seedUser(t, st, "dave", "longenoughpass", domain.RoleViewer)
	res, err := svc.Login(ctx, "dave", "longenoughpass")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, u.ID))

	_, err = svc.Resume(ctx, u.ID, res.Token)
	require.ErrorIs(t, err, ErrNotAuthenticated)

	t.Run("logout is idempotent", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, u.ID))
		require.NoError(t, svc.Logout(ctx, "never-existed"))
	})
}
