package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/brianwits/cowsaltpro/internal/auth/service"
	"github.com/brianwits/cowsaltpro/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	client, admin := setupServer(t)
	ctx := context.Background()

	createUser(t, admin, "cashier1", "Cashier123!", "cashier")

	t.Run("unknown username and wrong password share an error code", func(t *testing.T) {
		_, err := client.Login(ctx, "ghost", "whatever")
		requireAPIError(t, err, authsdk.ErrorCodeInvalidCredentials)

		_, err = client.Login(ctx, "cashier1", "wrong-password")
		requireAPIError(t, err, authsdk.ErrorCodeInvalidCredentials)
	})

	t.Run("valid credentials issue a working session", func(t *testing.T) {
		session, err := client.Login(ctx, "cashier1", "Cashier123!")
		require.NoError(t, err)
		require.False(t, session.MustChangePassword)

		me, err := session.Me(ctx)
		require.NoError(t, err)
		require.Equal(t, "cashier1", me.Username)
		require.Equal(t, "cashier", me.Role)
		require.NotNil(t, me.LastLoginAt)
	})
}

func TestSingleActiveSession(t *testing.T) {
	client, first := setupServer(t)
	ctx := context.Background()

	// A second login replaces the first session.
	second, err := client.Login(ctx, service.DefaultAdminUsername, adminPassword)
	require.NoError(t, err)

	_, err = first.Me(ctx)
	requireAPIError(t, err, authsdk.ErrorCodeInvalidToken)

	me, err := second.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, service.DefaultAdminUsername, me.Username)
}

func TestLogout(t *testing.T) {
	_, admin := setupServer(t)
	ctx := context.Background()

	require.NoError(t, admin.Logout(ctx))

	_, err := admin.Me(ctx)
	requireAPIError(t, err, authsdk.ErrorCodeInvalidToken)

	t.Run("logout after revocation is still unauthorized", func(t *testing.T) {
		requireAPIError(t, admin.Logout(ctx), authsdk.ErrorCodeInvalidToken)
	})
}

func TestLoginRateLimit(t *testing.T) {
	client, _ := setupServer(t)
	ctx := context.Background()

	// The strict profile admits a burst of five attempts per IP + username.
	for i := 0; i < 5; i++ {
		_, err := client.Login(ctx, "ghost", "wrong-password")
		requireAPIError(t, err, authsdk.ErrorCodeInvalidCredentials)
	}

	_, err := client.Login(ctx, "ghost", "wrong-password")
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	require.Equal(t, "rate_limit_exceeded", apiErr.Code)

	t.Run("a different username is not throttled", func(t *testing.T) {
		_, err := client.Login(ctx, "someone-else", "wrong-password")
		requireAPIError(t, err, authsdk.ErrorCodeInvalidCredentials)
	})
}

func TestStorageFailureWireResponse(t *testing.T) {
	client, admin, st := setupServerWithStore(t)
	ctx := context.Background()

	require.NoError(t, st.Close())

	// A dead backend must not masquerade as a rejected password, and the
	// response body must not leak driver detail.
	_, err := client.Login(ctx, service.DefaultAdminUsername, adminPassword)
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	require.Equal(t, authsdk.ErrorCodeServerError, apiErr.Code)
	require.Equal(t, "internal server error", apiErr.Description)

	_, err = admin.Me(ctx)
	requireAPIError(t, err, authsdk.ErrorCodeServerError)
}

func TestMalformedBearer(t *testing.T) {
	client, _ := setupServer(t)
	ctx := context.Background()

	t.Run("token without a user id part", func(t *testing.T) {
		session := client.ResumeSession("", "")
		_, err := session.Me(ctx)
		requireAPIError(t, err, authsdk.ErrorCodeInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		session := client.ResumeSession("someone", "not-a-real-token")
		_, err := session.Me(ctx)
		requireAPIError(t, err, authsdk.ErrorCodeInvalidToken)
	})
}
