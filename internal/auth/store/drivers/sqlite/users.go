package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/brianwits/cowsaltpro/internal/auth/domain"
	"github.com/brianwits/cowsaltpro/internal/auth/store"
	"github.com/brianwits/cowsaltpro/pkg/cryptox"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, full_name, email, role, custom_permissions,
	password_salt, password_key, session_token_hash, session_expires_at,
	require_password_change, password_changed_at, created_at, last_login_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, username, full_name, email, role, custom_permissions,
			password_salt, password_key, require_password_change, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Username,
		u.FullName,
		mapStringNull(u.Email),
		u.Role.String(),
		joinPermissions(u.CustomPermissions),
		u.Credential.SaltHex(),
		u.Credential.KeyHex(),
		u.RequirePasswordChange,
		u.CreatedAt.UTC(),
	)
	return mapErr(err)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, mapErr(rows.Err())
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, fullName, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET full_name = ?, email = ? WHERE id = ?`,
		fullName, mapStringNull(email), userID)
	return requireRow(res, err)
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = ? WHERE id = ?`,
		role.String(), userID)
	return requireRow(res, err)
}

func (r *usersRepo) UpdatePermissions(ctx context.Context, userID string, perms []domain.Permission) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET custom_permissions = ? WHERE id = ?`,
		joinPermissions(perms), userID)
	return requireRow(res, err)
}

func (r *usersRepo) UpdatePasswordCredential(
	ctx context.Context,
	userID string,
	cred cryptox.Credential,
	requireChange bool,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_salt = ?, password_key = ?,
			require_password_change = ?, password_changed_at = ?
		WHERE id = ?`,
		cred.SaltHex(), cred.KeyHex(), requireChange, time.Now().UTC(), userID)
	return requireRow(res, err)
}

func (r *usersRepo) SetSessionToken(
	ctx context.Context,
	userID, fingerprint string,
	expiresAt *time.Time,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET session_token_hash = ?, session_expires_at = ? WHERE id = ?`,
		fingerprint, mapOptionalTime(expiresAt), userID)
	return requireRow(res, err)
}

func (r *usersRepo) ClearSessionToken(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET session_token_hash = NULL, session_expires_at = NULL WHERE id = ?`,
		userID)
	return requireRow(res, err)
}

func (r *usersRepo) StampLastLogin(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
	return requireRow(res, err)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	return requireRow(res, err)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return false, mapErr(err)
	}
	return count == 0, nil
}

// requireRow maps exec results so mutating a missing user reports ErrNotFound.
func requireRow(res sql.Result, err error) error {
	if err != nil {
		return mapErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u                 domain.User
		email             sql.NullString
		role              string
		customPermissions string
		saltHex, keyHex   string
		sessionHash       sql.NullString
		sessionExpiresAt  sql.NullTime
		passwordChangedAt sql.NullTime
		lastLoginAt       sql.NullTime
	)

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FullName,
		&email,
		&role,
		&customPermissions,
		&saltHex,
		&keyHex,
		&sessionHash,
		&sessionExpiresAt,
		&u.RequirePasswordChange,
		&passwordChangedAt,
		&u.CreatedAt,
		&lastLoginAt,
	)
	if err != nil {
		return domain.User{}, mapErr(err)
	}

	u.Email = mapNullString(email)
	u.SessionTokenHash = mapNullString(sessionHash)
	u.SessionExpiresAt = mapNullTimePtr(sessionExpiresAt)
	u.PasswordChangedAt = mapNullTimePtr(passwordChangedAt)
	u.LastLoginAt = mapNullTimePtr(lastLoginAt)

	// Role and credential come from our own writes; a bad value here means a
	// corrupt store, surfaced as unavailable rather than a panic.
	u.Role, err = domain.ParseRole(role)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	u.Credential, err = cryptox.CredentialFromHex(saltHex, keyHex)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	u.CustomPermissions = splitPermissions(customPermissions)

	return u, nil
}

// Custom permissions are stored space-delimited in a single column.
func joinPermissions(perms []domain.Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

func splitPermissions(s string) []domain.Permission {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}

	perms := make([]domain.Permission, 0, len(fields))
	for _, f := range fields {
		p, err := domain.ParsePermission(f)
		if err != nil {
			// Unknown identifiers in storage are dropped rather than granted.
			continue
		}
		perms = append(perms, p)
	}
	return perms
}
