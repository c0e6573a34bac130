package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/brianwits/cowsaltpro/internal/auth/domain"
	"github.com/brianwits/cowsaltpro/internal/auth/store"
	"github.com/brianwits/cowsaltpro/pkg/cryptox"
	"github.com/brianwits/cowsaltpro/pkg/slogx"
)

// SessionService issues, validates, and revokes session tokens. The model is
// a single active session per user: a new login silently replaces the
// previous token, logging the old session out.
type SessionService struct {
	Store store.Store

	// TokenTTL bounds session lifetime. Zero disables expiry, matching the
	// historical behaviour; the default configuration sets a TTL.
	TokenTTL time.Duration
}

// LoginResult is returned on a successful login. Token is the raw opaque
// token for the caller to cache; only its fingerprint is stored.
type LoginResult struct {
	User               domain.User
	Token              string
	MustChangePassword bool
}

// Login authenticates a username/password pair and starts a new session.
func (s *SessionService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)
	username = strings.TrimSpace(username)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login rejected", "username", username)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, mapStoreErr(err)
	}

	if !cryptox.VerifyPassword(password, user.Credential) {
		l.Info("login rejected", "username", username)
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := cryptox.GenerateToken(cryptox.SessionTokenSize)
	if err != nil {
		return LoginResult{}, err
	}
	fingerprint := cryptox.FingerprintToken(token)

	var expiresAt *time.Time
	if s.TokenTTL > 0 {
		t := time.Now().UTC().Add(s.TokenTTL)
		expiresAt = &t
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().SetSessionToken(ctx, user.ID, fingerprint, expiresAt); err != nil {
			return err
		}
		return tx.Users().StampLastLogin(ctx, user.ID)
	})
	if err != nil {
		return LoginResult{}, mapStoreErr(err)
	}

	l.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return LoginResult{
		User:               user.Redacted(),
		Token:              token,
		MustChangePassword: user.RequirePasswordChange,
	}, nil
}

// Resume validates a presented token against the user's stored session. It
// succeeds only when both sides are non-empty, the fingerprints match, and
// the session has not expired.
func (s *SessionService) Resume(ctx context.Context, userID, presented string) (domain.User, error) {
	if userID == "" || presented == "" {
		return domain.User{}, ErrNotAuthenticated
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotAuthenticated
		}
		return domain.User{}, mapStoreErr(err)
	}

	if user.SessionTokenHash == "" {
		return domain.User{}, ErrNotAuthenticated
	}

	fingerprint := cryptox.FingerprintToken(presented)
	if subtle.ConstantTimeCompare([]byte(fingerprint), []byte(user.SessionTokenHash)) != 1 {
		return domain.User{}, ErrNotAuthenticated
	}

	if user.SessionExpiresAt != nil && time.Now().After(*user.SessionExpiresAt) {
		return domain.User{}, ErrNotAuthenticated
	}

	return user.Redacted(), nil
}

// Logout clears the user's session token. Logging out twice is not an error.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	l := slogx.FromContext(ctx)

	err := s.Store.Users().ClearSessionToken(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return mapStoreErr(err)
	}

	l.Info("user logged out", "user_id", userID)
	return nil
}
