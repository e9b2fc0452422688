package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/repository"
)

const userColumns = `id, email, password_hash, password_changed, nickname, created_at`

// UserRepository provides access to user data in SQLite.
type UserRepository struct {
	db *sql.DB
}

// Create inserts a new user and sets its ID.
// Returns ErrDuplicateEmail if the email is taken.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (email, password_hash, password_changed, nickname, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(
		ctx,
		query,
		user.Email,
		user.PasswordHash,
		user.PasswordChanged,
		user.Nickname,
		toUnix(user.CreatedAt),
	)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	user.ID = id

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*entities.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// List returns all users ordered by ID.
func (r *UserRepository) List(ctx context.Context) ([]*entities.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// UpdatePassword stores a new password hash and the password-changed flag.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string, changed bool) error {
	res, err := r.db.ExecContext(
		ctx,
		`UPDATE users SET password_hash = ?, password_changed = ? WHERE id = ?`,
		hash, changed, id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return requireAffected(res, repository.ErrUserNotFound)
}

// UpdateNickname sets the display nickname.
func (r *UserRepository) UpdateNickname(ctx context.Context, id int64, nickname string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET nickname = ? WHERE id = ?`, nickname, id)
	if err != nil {
		return fmt.Errorf("update nickname: %w", err)
	}

	return requireAffected(res, repository.ErrUserNotFound)
}

// Delete removes a user together with their result log entries.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return withinTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM test_results WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("delete test_results: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		return requireAffected(res, repository.ErrUserNotFound)
	})
}

func scanUser(row scanner) (*entities.User, error) {
	var (
		u         entities.User
		createdAt int64
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.PasswordChanged,
		&u.Nickname,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = fromUnix(createdAt)
	return &u, nil
}
