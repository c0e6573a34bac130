package service

import (
	"errors"
	"fmt"

	"github.com/brianwits/cowsaltpro/internal/auth/store"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. The two are never distinguishable to the caller, so usernames
	// cannot be probed through the login endpoint.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	ErrNotAuthenticated   = errors.New("not_authenticated")
	ErrNotAuthorized      = errors.New("not_authorized")
	ErrNotFound           = errors.New("not_found")
	ErrDuplicateUsername  = errors.New("duplicate_username")
	ErrCannotDeleteSelf   = errors.New("cannot_delete_self")
	ErrStorageUnavailable = errors.New("storage_unavailable")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// mapStoreErr translates store sentinels into service errors. Unknown storage
// failures surface as ErrStorageUnavailable; the wrapped detail is for logs,
// never for end users.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrDuplicateUsername
	default:
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
}
