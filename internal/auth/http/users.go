package http

import (
	"encoding/json"
	"net/http"

	"github.com/brianwits/cowsaltpro/internal/auth/domain"
	"github.com/brianwits/cowsaltpro/internal/auth/service"
	"github.com/brianwits/cowsaltpro/pkg/authsdk"
	"github.com/brianwits/cowsaltpro/pkg/httpx"
	"github.com/brianwits/cowsaltpro/pkg/slogx"
)

// UsersHandler serves the user administration endpoints. Authorization lives
// in the service layer; handlers only translate the wire format.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleList returns every user account, redacted.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := sessionUser(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	users, err := h.UserService.List(ctx, actor)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	res := authsdk.UserListResponse{Users: make([]authsdk.UserInfo, len(users))}
	for i, u := range users {
		res.Users[i] = userInfo(u)
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, res)
}

// HandleCreate adds a new user account.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := sessionUser(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Create(ctx, actor, domain.NewUser{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userInfo(user))
}

// HandleGet returns a single user account.
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := sessionUser(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.Get(ctx, actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userInfo(user))
}

// HandlePatch updates a user's profile fields.
func (h *UsersHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := sessionUser(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	patch := domain.ProfilePatch{
		FullName: req.FullName,
		Email:    req.Email,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}

	user, err := h.UserService.Update(ctx, actor, r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfo(user))
}

// HandleDelete removes a user account.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := sessionUser(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.UserService.Delete(ctx, actor, r.PathValue("id")); err != nil {
		writeServiceError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleResetPassword sets a new password for a user and revokes their
// session.
func (h *UsersHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := sessionUser(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	err := h.UserService.ResetPassword(ctx, actor, r.PathValue("id"), req.Password, req.RequireChange)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePutPermissions replaces a user's custom permission grants.
func (h *UsersHandler) HandlePutPermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := sessionUser(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.UpdatePermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	perms := make([]domain.Permission, len(req.Permissions))
	for i, p := range req.Permissions {
		perms[i] = domain.Permission(p)
	}

	if err := h.UserService.UpdatePermissions(ctx, actor, r.PathValue("id"), perms); err != nil {
		writeServiceError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
