package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "github.com/brianwits/cowsaltpro/internal/auth/http"
	"github.com/brianwits/cowsaltpro/internal/auth/service"
	"github.com/brianwits/cowsaltpro/internal/auth/store"
	"github.com/brianwits/cowsaltpro/internal/auth/store/drivers/sqlite"
	"github.com/brianwits/cowsaltpro/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

/*
 * Common helpers for credential service end-to-end tests. Each test gets an
 * in-process server over a fresh in-memory database, seeded with the default
 * admin account.
 *
 * The login endpoint is strictly rate limited per IP + username, and every
 * test hits the server from 127.0.0.1, so tests reuse the admin session
 * returned by setupServer instead of logging in repeatedly as admin.
 */

const (
	adminPassword = "Admin123!"
)

// setupServer starts the full HTTP stack over an in-memory store and returns
// an SDK client pointed at it plus a ready admin session. The default admin
// is seeded and its mandatory password rotation already completed; rotating
// the password keeps the session valid.
func setupServer(t *testing.T) (*authsdk.Client, *authsdk.Session) {
	t.Helper()

	client, admin, _ := setupServerWithStore(t)
	return client, admin
}

// setupServerWithStore is setupServer with the backing store exposed, for
// tests that need to break storage out from under the running server.
func setupServerWithStore(t *testing.T) (*authsdk.Client, *authsdk.Session, store.Store) {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	bootstrap := &service.BootstrapService{Store: st}
	created, err := bootstrap.EnsureDefaultAdmin(ctx)
	require.NoError(t, err)
	require.True(t, created)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter("test", st, logger)
	router.SessionService = &service.SessionService{Store: st, TokenTTL: time.Hour}
	router.UserService = &service.UserService{Store: st}
	router.BootstrapService = bootstrap
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	client := authsdk.NewClient(server.URL)

	admin, err := client.Login(ctx, service.DefaultAdminUsername, service.DefaultAdminPassword)
	require.NoError(t, err)
	require.True(t, admin.MustChangePassword)
	require.NoError(t, admin.ChangePassword(ctx, service.DefaultAdminPassword, adminPassword))

	return client, admin, st
}

// createUser provisions a user through the API.
func createUser(t *testing.T, admin *authsdk.Session, username, password, role string) authsdk.UserInfo {
	t.Helper()

	user, err := admin.CreateUser(context.Background(), authsdk.CreateUserRequest{
		Username: username,
		Password: password,
		FullName: "Test " + username,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

// requireAPIError asserts err is an *authsdk.APIError with the given code.
func requireAPIError(t *testing.T, err error, code string) {
	t.Helper()

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, code, apiErr.Code)
}
