package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/repository"
)

// Compile-time check that *DB implements the user contract.
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, firstname, lastname, pseudo, email, password_hash, is_admin, created_at`

// CreateUser inserts a new account, filling in the generated ID and creation
// timestamp on the passed struct. A pseudo or email collision is reported as
// a conflict even if the caller skipped the pre-check.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Firstname,
		user.Lastname,
		user.Pseudo,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		user.CreatedAt,
	)
	if err != nil {
		if conflict := userConflict(err, user); conflict != nil {
			return conflict
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by primary identifier.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id, apperror.NotFound("user", id))
}

// GetUserByPseudo retrieves a user by pseudo. Used by the authentication
// middleware and the token endpoint, and by the uniqueness pre-check.
func (db *DB) GetUserByPseudo(ctx context.Context, pseudo string) (*model.User, error) {
	return db.getUser(ctx, `WHERE pseudo = ?`, pseudo,
		&apperror.AppError{Err: apperror.ErrNotFound, Message: fmt.Sprintf("no user with pseudo %s found", pseudo)})
}

// GetUserByEmail retrieves a user by email. Used by the uniqueness pre-check.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `WHERE email = ?`, email,
		&apperror.AppError{Err: apperror.ErrNotFound, Message: fmt.Sprintf("no user with email %s found", email)})
}

func (db *DB) getUser(ctx context.Context, where, arg string, notFound error) (*model.User, error) {
	var user model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users `+where, arg,
	).Scan(
		&user.ID,
		&user.Firstname,
		&user.Lastname,
		&user.Pseudo,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &user, nil
}

// ListUsers returns users in insertion order with the given bounds.
func (db *DB) ListUsers(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 ORDER BY created_at ASC, id ASC
		 LIMIT ? OFFSET ?`,
		opts.Limit,
		opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, opts.Limit)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Firstname, &u.Lastname, &u.Pseudo, &u.Email,
			&u.PasswordHash, &u.IsAdmin, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// UpdateUser writes the mutable fields of an existing user. ID and
// created_at never change.
func (db *DB) UpdateUser(ctx context.Context, user *model.User) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET firstname = ?, lastname = ?, pseudo = ?, email = ?, password_hash = ?
		 WHERE id = ?`,
		user.Firstname,
		user.Lastname,
		user.Pseudo,
		user.Email,
		user.PasswordHash,
		user.ID,
	)
	if err != nil {
		if conflict := userConflict(err, user); conflict != nil {
			return conflict
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// DeleteUser removes a user. Owned snippets go with it through the
// ON DELETE CASCADE foreign key.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}

// userConflict translates a UNIQUE violation on users into the conflict
// message the API promises, or returns nil if err is something else.
func userConflict(err error, user *model.User) error {
	switch {
	case isUniqueViolation(err, "users.pseudo"):
		return apperror.Conflict(fmt.Sprintf("A user with pseudo %s already exists", user.Pseudo))
	case isUniqueViolation(err, "users.email"):
		return apperror.Conflict(fmt.Sprintf("A user with email %s already exists", user.Email))
	}
	return nil
}
