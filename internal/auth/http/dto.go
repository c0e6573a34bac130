package http

import (
	"github.com/brianwits/cowsaltpro/internal/auth/domain"
	"github.com/brianwits/cowsaltpro/pkg/authsdk"
)

func userInfo(u domain.User) authsdk.UserInfo {
	perms := make([]string, len(u.CustomPermissions))
	for i, p := range u.CustomPermissions {
		perms[i] = p.String()
	}

	return authsdk.UserInfo{
		ID:                    u.ID,
		Username:              u.Username,
		FullName:              u.FullName,
		Email:                 u.Email,
		Role:                  u.Role.String(),
		CustomPermissions:     perms,
		RequirePasswordChange: u.RequirePasswordChange,
		PasswordChangedAt:     u.PasswordChangedAt,
		CreatedAt:             u.CreatedAt,
		LastLoginAt:           u.LastLoginAt,
	}
}
