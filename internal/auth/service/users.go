package service

import (
	"context"
	"strings"
	"time"

	"github.com/brianwits/cowsaltpro/internal/auth/domain"
	"github.com/brianwits/cowsaltpro/internal/auth/store"
	"github.com/brianwits/cowsaltpro/pkg/cryptox"
	"github.com/brianwits/cowsaltpro/pkg/idx"
	"github.com/brianwits/cowsaltpro/pkg/slogx"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// UserService performs user administration. Every operation takes the acting
// user and enforces its own authorization; handlers are never trusted with
// these checks.
type UserService struct {
	Store store.Store
}

// Create adds a new user. Admin only.
func (s *UserService) Create(ctx context.Context, actor domain.User, req domain.NewUser) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if !actor.IsAdmin() {
		return domain.User{}, ErrNotAuthorized
	}

	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Username == "" {
		return domain.User{}, validationErr("username", "is required")
	}
	if req.FullName == "" {
		return domain.User{}, validationErr("full_name", "is required")
	}
	if len(req.Password) < MinPasswordLength {
		return domain.User{}, validationErr("password", "must be at least 8 characters")
	}
	if _, err := domain.ParseRole(req.Role.String()); err != nil {
		return domain.User{}, validationErr("role", "is not a known role")
	}

	cred, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:         idx.New().String(),
		Username:   req.Username,
		FullName:   req.FullName,
		Email:      strings.TrimSpace(req.Email),
		Role:       req.Role,
		Credential: cred,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	l.Info("user created",
		"user_id", user.ID,
		"username", user.Username,
		"role", user.Role.String(),
		"created_by", actor.ID,
	)
	return user.Redacted(), nil
}

// Get returns a single redacted user record. Admins may fetch anyone; other
// users only themselves.
func (s *UserService) Get(ctx context.Context, actor domain.User, userID string) (domain.User, error) {
	if !actor.IsAdmin() && actor.ID != userID {
		return domain.User{}, ErrNotAuthorized
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return user.Redacted(), nil
}

// List returns all users with sensitive fields stripped. Admin only.
func (s *UserService) List(ctx context.Context, actor domain.User) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}

	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	redacted := make([]domain.User, len(users))
	for i, u := range users {
		redacted[i] = u.Redacted()
	}
	return redacted, nil
}

// Update applies a profile patch. Users may edit their own full name and
// email; role changes are admin only. Username is immutable.
func (s *UserService) Update(ctx context.Context, actor domain.User, userID string, patch domain.ProfilePatch) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if !actor.IsAdmin() && actor.ID != userID {
		return domain.User{}, ErrNotAuthorized
	}
	if patch.Role != nil && !actor.IsAdmin() {
		return domain.User{}, ErrNotAuthorized
	}

	if patch.FullName != nil && strings.TrimSpace(*patch.FullName) == "" {
		return domain.User{}, validationErr("full_name", "is required")
	}
	if patch.Role != nil {
		if _, err := domain.ParseRole(patch.Role.String()); err != nil {
			return domain.User{}, validationErr("role", "is not a known role")
		}
	}

	var updated domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		fullName := user.FullName
		if patch.FullName != nil {
			fullName = strings.TrimSpace(*patch.FullName)
		}
		email := user.Email
		if patch.Email != nil {
			email = strings.TrimSpace(*patch.Email)
		}

		if err := tx.Users().UpdateProfile(ctx, userID, fullName, email); err != nil {
			return err
		}
		if patch.Role != nil && *patch.Role != user.Role {
			if err := tx.Users().UpdateRole(ctx, userID, *patch.Role); err != nil {
				return err
			}
		}

		updated, err = tx.Users().GetUserByID(ctx, userID)
		return err
	})
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	l.Info("user updated", "user_id", userID, "updated_by", actor.ID)
	return updated.Redacted(), nil
}

// Delete removes a user record. Admin only, and never the acting user's own
// account, regardless of role.
func (s *UserService) Delete(ctx context.Context, actor domain.User, userID string) error {
	l := slogx.FromContext(ctx)

	if actor.ID == userID {
		return ErrCannotDeleteSelf
	}
	if !actor.IsAdmin() {
		return ErrNotAuthorized
	}

	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		return mapStoreErr(err)
	}

	l.Info("user deleted", "user_id", userID, "deleted_by", actor.ID)
	return nil
}

// ResetPassword sets a new password for a user. Admins may reset anyone;
// other users only themselves. The target's active session is revoked.
func (s *UserService) ResetPassword(ctx context.Context, actor domain.User, userID, newPassword string, requireChange bool) error {
	l := slogx.FromContext(ctx)

	if !actor.IsAdmin() && actor.ID != userID {
		return ErrNotAuthorized
	}
	if len(newPassword) < MinPasswordLength {
		return validationErr("password", "must be at least 8 characters")
	}

	cred, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordCredential(ctx, userID, cred, requireChange); err != nil {
			return err
		}
		return tx.Users().ClearSessionToken(ctx, userID)
	})
	if err != nil {
		return mapStoreErr(err)
	}

	l.Info("password reset", "user_id", userID, "reset_by", actor.ID, "require_change", requireChange)
	return nil
}

// ChangePassword verifies the actor's current password and replaces it,
// clearing any must-change flag. The current session stays valid.
func (s *UserService) ChangePassword(ctx context.Context, actor domain.User, oldPassword, newPassword string) error {
	l := slogx.FromContext(ctx)

	if len(newPassword) < MinPasswordLength {
		return validationErr("password", "must be at least 8 characters")
	}

	// The actor record is redacted; fetch the credential for verification.
	user, err := s.Store.Users().GetUserByID(ctx, actor.ID)
	if err != nil {
		return mapStoreErr(err)
	}
	if !cryptox.VerifyPassword(oldPassword, user.Credential) {
		return ErrInvalidCredentials
	}

	cred, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordCredential(ctx, actor.ID, cred, false); err != nil {
		return mapStoreErr(err)
	}

	l.Info("password changed", "user_id", actor.ID)
	return nil
}

// UpdatePermissions replaces a user's custom permission grants. Admin only.
func (s *UserService) UpdatePermissions(ctx context.Context, actor domain.User, userID string, perms []domain.Permission) error {
	l := slogx.FromContext(ctx)

	if !actor.IsAdmin() {
		return ErrNotAuthorized
	}

	deduped := make([]domain.Permission, 0, len(perms))
	seen := make(map[domain.Permission]struct{}, len(perms))
	for _, p := range perms {
		if _, err := domain.ParsePermission(p.String()); err != nil {
			return validationErr("permissions", "contains an unknown permission")
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		deduped = append(deduped, p)
	}

	if err := s.Store.Users().UpdatePermissions(ctx, userID, deduped); err != nil {
		return mapStoreErr(err)
	}

	l.Info("permissions updated", "user_id", userID, "updated_by", actor.ID, "count", len(deduped))
	return nil
}
