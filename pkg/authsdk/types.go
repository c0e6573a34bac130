package authsdk

import "time"

// ErrorResponse is the wire form of a failed request, used by the client for
// unmarshalling. Server code writes errors through APIError.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// UserInfo is a user record with credential material stripped.
type UserInfo struct {
	ID                    string     `json:"id"`
	Username              string     `json:"username"`
	FullName              string     `json:"full_name"`
	Email                 string     `json:"email,omitempty"`
	Role                  string     `json:"role"`
	CustomPermissions     []string   `json:"custom_permissions,omitempty"`
	RequirePasswordChange bool       `json:"require_password_change"`
	PasswordChangedAt     *time.Time `json:"password_changed_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	LastLoginAt           *time.Time `json:"last_login_at,omitempty"`
}

// LoginRequest is the body of POST /v1/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login. Token is presented on
// later requests as "Authorization: Bearer <user_id>.<token>".
type LoginResponse struct {
	User               UserInfo `json:"user"`
	Token              string   `json:"token"`
	MustChangePassword bool     `json:"must_change_password"`
}

// CreateUserRequest is the body of POST /v1/users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// UpdateUserRequest is the body of PATCH /v1/users/{id}. Nil fields are left
// unchanged.
type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// ResetPasswordRequest is the body of POST /v1/users/{id}/password.
type ResetPasswordRequest struct {
	Password      string `json:"password"`
	RequireChange bool   `json:"require_change"`
}

// ChangePasswordRequest is the body of POST /v1/session/password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdatePermissionsRequest is the body of PUT /v1/users/{id}/permissions. It
// replaces the user's custom grants wholesale.
type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// UserListResponse is returned by GET /v1/users.
type UserListResponse struct {
	Users []UserInfo `json:"users"`
}

// HealthChecks reports the state of the service's dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
