package service

import (
	"context"
	"errors"
	"time"

	"github.com/brianwits/cowsaltpro/internal/auth/domain"
	"github.com/brianwits/cowsaltpro/internal/auth/store"
	"github.com/brianwits/cowsaltpro/pkg/cryptox"
	"github.com/brianwits/cowsaltpro/pkg/idx"
	"github.com/brianwits/cowsaltpro/pkg/slogx"
)

// Default administrator account seeded into an empty store. The password is
// well known and must be rotated before the account can do anything else.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin"
)

// BootstrapService seeds the initial administrator so a fresh install is
// never locked out.
type BootstrapService struct {
	Store store.Store
}

// EnsureDefaultAdmin creates the default admin account if the user store is
// empty. Returns true when the account was created on this call. The seeded
// account carries the must-change-password flag.
func (s *BootstrapService) EnsureDefaultAdmin(ctx context.Context) (bool, error) {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, mapStoreErr(err)
	}
	if !empty {
		return false, nil
	}

	cred, err := cryptox.HashPassword(DefaultAdminPassword)
	if err != nil {
		return false, err
	}

	admin := domain.User{
		ID:                    idx.New().String(),
		Username:              DefaultAdminUsername,
		FullName:              "Administrator",
		Role:                  domain.RoleAdmin,
		Credential:            cred,
		RequirePasswordChange: true,
		CreatedAt:             time.Now().UTC(),
	}

	if err := s.Store.Users().CreateUser(ctx, admin); err != nil {
		// Another process seeded the account between the emptiness check
		// and the insert.
		if errors.Is(err, store.ErrAlreadyExists) {
			return false, nil
		}
		return false, mapStoreErr(err)
	}

	l.Warn("default admin account created with well-known password, change it immediately",
		"user_id", admin.ID,
		"username", DefaultAdminUsername,
	)
	return true, nil
}
