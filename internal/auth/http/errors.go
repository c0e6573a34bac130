package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/brianwits/cowsaltpro/internal/auth/service"
	"github.com/brianwits/cowsaltpro/pkg/authsdk"
)

// writeServiceError maps service errors onto the wire vocabulary. Anything
// unrecognised is logged in full and reported as a generic server error.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	var verr *service.ValidationError

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrNotAuthenticated):
		authsdk.ErrInvalidToken.WriteError(w)
	case errors.Is(err, service.ErrNotAuthorized):
		authsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		authsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrDuplicateUsername):
		authsdk.ErrDuplicateUsername.WriteError(w)
	case errors.Is(err, service.ErrCannotDeleteSelf):
		authsdk.ErrCannotDeleteSelf.WriteError(w)
	case errors.As(err, &verr):
		authsdk.ErrInvalidRequest.WithDescription(verr.Error()).WriteError(w)
	default:
		log.Error("request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
