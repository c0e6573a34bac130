package http

import (
	"encoding/json"
	"net/http"

	"github.com/brianwits/cowsaltpro/internal/auth/service"
	"github.com/brianwits/cowsaltpro/pkg/authsdk"
	"github.com/brianwits/cowsaltpro/pkg/httpx"
	"github.com/brianwits/cowsaltpro/pkg/slogx"
)

type LoginHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP authenticates a username/password pair and issues a session
// token. Unknown usernames and wrong passwords produce the same response.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.SessionService.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		User:               userInfo(res.User),
		Token:              res.Token,
		MustChangePassword: res.MustChangePassword,
	})
}
