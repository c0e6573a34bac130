package http

import (
	"encoding/json"
	"net/http"

	"github.com/brianwits/cowsaltpro/internal/auth/service"
	"github.com/brianwits/cowsaltpro/pkg/authsdk"
	"github.com/brianwits/cowsaltpro/pkg/httpx"
	"github.com/brianwits/cowsaltpro/pkg/slogx"
)

// SessionHandler serves the current-session endpoints.
type SessionHandler struct {
	SessionService *service.SessionService
	UserService    *service.UserService
}

// HandleGet returns the authenticated user's own record.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userInfo(user))
}

// HandleLogout revokes the session. Revoking twice is fine.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, ok := sessionUser(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.SessionService.Logout(ctx, user.ID); err != nil {
		writeServiceError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChangePassword rotates the session user's own password after
// verifying the current one. The session stays valid.
func (h *SessionHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, ok := sessionUser(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.UserService.ChangePassword(ctx, user, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
