package store

import (
	"context"
	"errors"
	"time"

	"github.com/brianwits/cowsaltpro/internal/auth/domain"
	"github.com/brianwits/cowsaltpro/pkg/cryptox"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrUnavailable wraps any driver failure that is not one of the
	// sentinels above. Raw driver detail never crosses this boundary.
	ErrUnavailable = errors.New("store: unavailable")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil and rolling
	// back on error. This is the recommended way to run multi-step mutations.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login. Lookup is case-sensitive.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns all users ordered by creation date.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpdateProfile mutates the descriptive fields.
	UpdateProfile(ctx context.Context, userID, fullName, email string) error

	// UpdateRole changes the user's role.
	UpdateRole(ctx context.Context, userID string, role domain.Role) error

	// UpdatePermissions replaces the user's custom permission grants.
	UpdatePermissions(ctx context.Context, userID string, perms []domain.Permission) error

	// UpdatePasswordCredential sets a new salt+key pair, stamps
	// password_changed_at, and sets or clears the must-change flag.
	UpdatePasswordCredential(ctx context.Context, userID string, cred cryptox.Credential, requireChange bool) error

	// SetSessionToken stores the fingerprint of the user's single active
	// session token, replacing any previous one.
	SetSessionToken(ctx context.Context, userID, fingerprint string, expiresAt *time.Time) error

	// ClearSessionToken logs the user out. Clearing an absent token is not an
	// error.
	ClearSessionToken(ctx context.Context, userID string) error

	// StampLastLogin sets last_login_at to now.
	StampLastLogin(ctx context.Context, userID string) error

	// DeleteUser removes the record. Returns ErrNotFound if absent.
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}
