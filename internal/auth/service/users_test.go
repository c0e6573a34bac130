package service

import (
	"context"
	"testing"

	"github.com/brianwits/cowsaltpro/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestUserCreate(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &UserService{Store: st}
	ctx := context.Background()

	admin := seedUser(t, st, "root", "admin-password", domain.RoleAdmin)
	cashier := seedUser(t, st, "till", "till-password1", domain.RoleCashier)

	t.Run("admin creates a user", func(t *testing.T) {
		u, err := svc.Create(ctx, admin, domain.NewUser{
			Username: "erin",
			Password: "erin-password",
			FullName: "Erin Stone",
			Email:    "erin@example.com",
			Role:     domain.RoleManager,
		})
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		require.Equal(t, domain.RoleManager, u.Role)
		require.True(t, u.Credential.IsZero())
	})

	t.Run("non-admin cannot create", func(t *testing.T) {
		_, err := svc.Create(ctx, cashier, domain.NewUser{
			Username: "mallory",
			Password: "mallory-pass1",
			FullName: "Mallory",
			Role:     domain.RoleViewer,
		})
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, admin, domain.NewUser{
			Username: "erin",
			Password: "another-pass1",
			FullName: "Other Erin",
			Role:     domain.RoleViewer,
		})
		require.ErrorIs(t, err, ErrDuplicateUsername)
	})

	t.Run("usernames are case sensitive", func(t *testing.T) {
		_, err := svc.Create(ctx, admin, domain.NewUser{
			Username: "Erin",
			Password: "another-pass1",
			FullName: "Upper Erin",
			Role:     domain.RoleViewer,
		})
		require.NoError(t, err)
	})

	t.Run("validation", func(t *testing.T) {
		var verr *ValidationError

		_, err := svc.Create(ctx, admin, domain.NewUser{Password: "p4sswordlong", FullName: "X", Role: domain.RoleViewer})
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "username", verr.Field)

		_, err = svc.Create(ctx, admin, domain.NewUser{Username: "x1", Password: "short", FullName: "X", Role: domain.RoleViewer})
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "password", verr.Field)

		_, err = svc.Create(ctx, admin, domain.NewUser{Username: "x2", Password: "p4sswordlong", FullName: "X", Role: "superuser"})
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "role", verr.Field)
	})
}

func TestUserGetAndList(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &UserService{Store: st}
	ctx := context.Background()

	admin := seedUser(t, st, "root", "admin-password", domain.RoleAdmin)
	clerk := seedUser(t, st, "desk", "desk-password1", domain.RoleClerk)

	t.Run("admin fetches anyone", func(t *testing.T) {
		u, err := svc.Get(ctx, admin, clerk.ID)
		require.NoError(t, err)
		require.Equal(t, "desk", u.Username)
	})

	t.Run("users fetch themselves only", func(t *testing.T) {
		u, err := svc.Get(ctx, clerk, clerk.ID)
		require.NoError(t, err)
		require.Equal(t, clerk.ID, u.ID)

		_, err = svc.Get(ctx, clerk, admin.ID)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("unknown user id", func(t *testing.T) {
		_, err := svc.Get(ctx, admin, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list is admin only and redacted", func(t *testing.T) {
		users, err := svc.List(ctx, admin)
		require.NoError(t, err)
		require.Len(t, users, 2)
		for _, u := range users {
			require.True(t, u.Credential.IsZero())
			require.Empty(t, u.SessionTokenHash)
		}

		_, err = svc.List(ctx, clerk)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})
}

func TestUserUpdate(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &UserService{Store: st}
	ctx := context.Background()

	admin := seedUser(t, st, "root", "admin-password", domain.RoleAdmin)
	clerk := seedUser(t, st, "desk", "desk-password1", domain.RoleClerk)

	t.Run("user edits own profile", func(t *testing.T) {
		u, err := svc.Update(ctx, clerk, clerk.ID, domain.ProfilePatch{
			FullName: strptr("Desk Clerk"),
			Email:    strptr("desk@example.com"),
		})
		require.NoError(t, err)
		require.Equal(t, "Desk Clerk", u.FullName)
		require.Equal(t, "desk@example.com", u.Email)
	})

	t.Run("role change requires admin", func(t *testing.T) {
		role := domain.RoleManager
		_, err := svc.Update(ctx, clerk, clerk.ID, domain.ProfilePatch{Role: &role})
		require.ErrorIs(t, err, ErrNotAuthorized)

		u, err := svc.Update(ctx, admin, clerk.ID, domain.ProfilePatch{Role: &role})
		require.NoError(t, err)
		require.Equal(t, domain.RoleManager, u.Role)
	})

	t.Run("cannot edit someone else", func(t *testing.T) {
		_, err := svc.Update(ctx, clerk, admin.ID, domain.ProfilePatch{FullName: strptr("Hax")})
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		bad := domain.Role("superuser")
		_, err := svc.Update(ctx, admin, clerk.ID, domain.ProfilePatch{Role: &bad})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("unknown user id", func(t *testing.T) {
		_, err := svc.Update(ctx, admin, "missing", domain.ProfilePatch{FullName: strptr("X")})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserDelete(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &UserService{Store: st}
	ctx := context.Background()

	admin := seedUser(t, st, "root", "admin-password", domain.RoleAdmin)
	clerk := seedUser(t, st, "desk", "desk-password1", domain.RoleClerk)
	victim := seedUser(t, st, "gone", "gone-password1", domain.RoleViewer)

	t.Run("self delete is refused even for admins", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, admin, admin.ID), ErrCannotDeleteSelf)
	})

	t.Run("self delete check wins over the role check", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, clerk, clerk.ID), ErrCannotDeleteSelf)
	})

	t.Run("non-admin cannot delete others", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, clerk, victim.ID), ErrNotAuthorized)
	})

	t.Run("admin deletes a user", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, admin, victim.ID))
		_, err := svc.Get(ctx, admin, victim.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deleting a missing user", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, admin, "missing"), ErrNotFound)
	})
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	users := &UserService{Store: st}
	sessions := &SessionService{Store: st}
	ctx := context.Background()

	admin := seedUser(t, st, "root", "admin-password", domain.RoleAdmin)
	seedUser(t, st, "desk", "desk-password1", domain.RoleClerk)

	res, err := sessions.Login(ctx, "desk", "desk-password1")
	require.NoError(t, err)
	clerk := res.User

	t.Run("admin reset revokes the target session", func(t *testing.T) {
		require.NoError(t, users.ResetPassword(ctx, admin, clerk.ID, "fresh-password", true))

		_, err := sessions.Resume(ctx, clerk.ID, res.Token)
		require.ErrorIs(t, err, ErrNotAuthenticated)

		_, err = sessions.Login(ctx, "desk", "desk-password1")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		next, err := sessions.Login(ctx, "desk", "fresh-password")
		require.NoError(t, err)
		require.True(t, next.MustChangePassword)
	})

	t.Run("non-admin cannot reset others", func(t *testing.T) {
		err := users.ResetPassword(ctx, clerk, admin.ID, "sneaky-password", false)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		var verr *ValidationError
		err := users.ResetPassword(ctx, admin, clerk.ID, "short", false)
		require.ErrorAs(t, err, &verr)
	})
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	users := &UserService{Store: st}
	sessions := &SessionService{Store: st}
	ctx := context.Background()

	seedUser(t, st, "frank", "original-pass1", domain.RoleManager)
	res, err := sessions.Login(ctx, "frank", "original-pass1")
	require.NoError(t, err)
	frank := res.User

	t.Run("wrong old password", func(t *testing.T) {
		err := users.ChangePassword(ctx, frank, "not-the-one", "replacement-1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("change keeps the current session", func(t *testing.T) {
		require.NoError(t, users.ChangePassword(ctx, frank, "original-pass1", "replacement-1"))

		_, err := sessions.Resume(ctx, frank.ID, res.Token)
		require.NoError(t, err)

		_, err = sessions.Login(ctx, "frank", "original-pass1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = sessions.Login(ctx, "frank", "replacement-1")
		require.NoError(t, err)
	})

	t.Run("change clears the must-change flag", func(t *testing.T) {
		require.NoError(t, users.ResetPassword(ctx, frank, frank.ID, "interim-pass1", true))
		require.NoError(t, users.ChangePassword(ctx, frank, "interim-pass1", "final-pass123"))

		stored, err := st.Users().GetUserByID(ctx, frank.ID)
		require.NoError(t, err)
		require.False(t, stored.RequirePasswordChange)
		require.NotNil(t, stored.PasswordChangedAt)
	})
}

func TestUpdatePermissions(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &UserService{Store: st}
	ctx := context.Background()

	admin := seedUser(t, st, "root", "admin-password", domain.RoleAdmin)
	viewer := seedUser(t, st, "watch", "watch-password", domain.RoleViewer)

	t.Run("grants extend the role baseline", func(t *testing.T) {
		require.False(t, viewer.HasPermission(domain.PermCreateSale))

		err := svc.UpdatePermissions(ctx, admin, viewer.ID, []domain.Permission{
			domain.PermCreateSale, domain.PermCreateSale,
		})
		require.NoError(t, err)

		stored, err := st.Users().GetUserByID(ctx, viewer.ID)
		require.NoError(t, err)
		require.Equal(t, []domain.Permission{domain.PermCreateSale}, stored.CustomPermissions)
		require.True(t, stored.HasPermission(domain.PermCreateSale))
		require.True(t, stored.HasPermission(domain.PermViewSales))
	})

	t.Run("unknown permission is rejected", func(t *testing.T) {
		var verr *ValidationError
		err := svc.UpdatePermissions(ctx, admin, viewer.ID, []domain.Permission{"launch_rockets"})
		require.ErrorAs(t, err, &verr)
	})

	t.Run("admin only", func(t *testing.T) {
		err := svc.UpdatePermissions(ctx, viewer, viewer.ID, nil)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("unknown user id", func(t *testing.T) {
		err := svc.UpdatePermissions(ctx, admin, "missing", []domain.Permission{domain.PermViewSales})
		require.ErrorIs(t, err, ErrNotFound)
	})
}
