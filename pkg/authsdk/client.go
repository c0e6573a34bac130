package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the credential service. It provides the unauthenticated
// operations and creates authenticated Sessions via Login.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for a service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login authenticates a username/password pair and returns an authenticated
// Session. A successful login replaces any earlier session for the user.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var res LoginResponse
	if err := c.do(ctx, http.MethodPost, "/v1/login", "", LoginRequest{
		Username: username,
		Password: password,
	}, &res); err != nil {
		return nil, err
	}

	return &Session{
		client: c,
		user:   res.User,
		bearer: res.User.ID + "." + res.Token,

		MustChangePassword: res.MustChangePassword,
	}, nil
}

// ResumeSession reconstructs a Session from cached credentials, for clients
// that persist the token between runs. The token is validated on first use.
func (c *Client) ResumeSession(userID, token string) *Session {
	return &Session{
		client: c,
		user:   UserInfo{ID: userID},
		bearer: userID + "." + token,
	}
}

// Livez reports whether the service process is up.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var res HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", "", nil, &res)
	return res, err
}

// Readyz reports whether the service and its database are ready.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var res HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", "", nil, &res)
	return res, err
}

// Session is an authenticated handle on the service, bound to one user's
// bearer token.
type Session struct {
	client *Client
	user   UserInfo
	bearer string

	// MustChangePassword is set when the account has to rotate its password
	// before other endpoints will respond.
	MustChangePassword bool
}

// UserID returns the authenticated user's ID.
func (s *Session) UserID() string { return s.user.ID }

// Token returns the raw bearer value for persisting across runs.
func (s *Session) Token() string { return s.bearer }

// Me fetches the current session's user record.
func (s *Session) Me(ctx context.Context) (UserInfo, error) {
	var res UserInfo
	if err := s.do(ctx, http.MethodGet, "/v1/session", nil, &res); err != nil {
		return UserInfo{}, err
	}
	s.user = res
	return res, nil
}

// Logout revokes the session. Calling it on an already revoked session is
// not an error.
func (s *Session) Logout(ctx context.Context) error {
	return s.do(ctx, http.MethodPost, "/v1/logout", nil, nil)
}

// ChangePassword rotates the session user's own password. The current
// session stays valid.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	err := s.do(ctx, http.MethodPost, "/v1/session/password", ChangePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	}, nil)
	if err == nil {
		s.MustChangePassword = false
	}
	return err
}

// CreateUser adds a new user account. Admin only.
func (s *Session) CreateUser(ctx context.Context, req CreateUserRequest) (UserInfo, error) {
	var res UserInfo
	err := s.do(ctx, http.MethodPost, "/v1/users", req, &res)
	return res, err
}

// ListUsers returns all user accounts. Admin only.
func (s *Session) ListUsers(ctx context.Context) ([]UserInfo, error) {
	var res UserListResponse
	if err := s.do(ctx, http.MethodGet, "/v1/users", nil, &res); err != nil {
		return nil, err
	}
	return res.Users, nil
}

// GetUser fetches a single user account.
func (s *Session) GetUser(ctx context.Context, userID string) (UserInfo, error) {
	var res UserInfo
	err := s.do(ctx, http.MethodGet, "/v1/users/"+userID, nil, &res)
	return res, err
}

// UpdateUser patches a user's profile fields.
func (s *Session) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (UserInfo, error) {
	var res UserInfo
	err := s.do(ctx, http.MethodPatch, "/v1/users/"+userID, req, &res)
	return res, err
}

// DeleteUser removes a user account. Admin only, never the session's own.
func (s *Session) DeleteUser(ctx context.Context, userID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/users/"+userID, nil, nil)
}

// ResetPassword sets a new password for a user, revoking their session.
func (s *Session) ResetPassword(ctx context.Context, userID string, req ResetPasswordRequest) error {
	return s.do(ctx, http.MethodPost, "/v1/users/"+userID+"/password", req, nil)
}

// UpdatePermissions replaces a user's custom permission grants. Admin only.
func (s *Session) UpdatePermissions(ctx context.Context, userID string, perms []string) error {
	return s.do(ctx, http.MethodPut, "/v1/users/"+userID+"/permissions", UpdatePermissionsRequest{
		Permissions: perms,
	}, nil)
}

func (s *Session) do(ctx context.Context, method, path string, body, out any) error {
	return s.client.do(ctx, method, path, s.bearer, body, out)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError turns a failed response into an *APIError so callers can match
// on the error code.
func decodeError(resp *http.Response) error {
	var wire ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil || wire.Error == "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        ErrorCodeServerError,
			Description: fmt.Sprintf("unexpected response status %d", resp.StatusCode),
		}
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        wire.Error,
		Description: wire.ErrorDescription,
	}
}
