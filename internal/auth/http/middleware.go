package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/brianwits/cowsaltpro/internal/auth/domain"
	"github.com/brianwits/cowsaltpro/internal/auth/service"
	"github.com/brianwits/cowsaltpro/pkg/authsdk"
	"github.com/brianwits/cowsaltpro/pkg/httpx"
	"github.com/brianwits/cowsaltpro/pkg/slogx"
)

type ctxKey string

const ctxKeySessionUser ctxKey = "session_user"

// sessionUser returns the authenticated user stored by SessionMiddleware.
func sessionUser(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKeySessionUser).(domain.User)
	return u, ok
}

// SessionMiddleware authenticates requests carrying
// "Authorization: Bearer <user_id>.<token>" against the stored session and
// injects the user into the request context.
func SessionMiddleware(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				authsdk.ErrInvalidToken.WriteError(w)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			userID, token, ok := strings.Cut(raw, ".")
			if !ok {
				authsdk.ErrInvalidToken.WriteError(w)
				return
			}

			user, err := sessions.Resume(ctx, userID, token)
			if err != nil {
				writeServiceError(w, log, err)
				return
			}

			ctx = context.WithValue(ctx, ctxKeySessionUser, user)
			ctx = context.WithValue(ctx, httpx.CtxKeyUserID, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PasswordChangeGate blocks accounts flagged for a mandatory password
// rotation. Routes that let the user complete the rotation (change password,
// inspect the session, log out) are registered without it.
func PasswordChangeGate() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := sessionUser(r.Context())
			if !ok {
				authsdk.ErrInvalidToken.WriteError(w)
				return
			}
			if user.RequirePasswordChange {
				authsdk.ErrPasswordChangeRequired.WriteError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
