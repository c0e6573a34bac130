package service

import (
	"context"
	"testing"
	"time"

	"github.com/brianwits/cowsaltpro/internal/auth/domain"
	"github.com/brianwits/cowsaltpro/internal/auth/store"
	"github.com/brianwits/cowsaltpro/internal/auth/store/drivers/sqlite"
	"github.com/brianwits/cowsaltpro/pkg/cryptox"
	"github.com/brianwits/cowsaltpro/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st store.Store, username, password string, role domain.Role) domain.User {
	t.Helper()

	cred, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	u := domain.User{
		ID:         idx.New().String(),
		Username:   username,
		FullName:   "Test " + username,
		Role:       role,
		Credential: cred,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}
