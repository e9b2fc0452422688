package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/infra/postgres"
	"github.com/plainpine/myquest/internal/repository"
)

const uniqueViolation = "23505"

const userColumns = `id, email, password_hash, password_changed, nickname, created_at`

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db postgres.DBTX
	tr *postgres.Transactor
}

// NewUserRepository creates a new UserRepository with the provided database pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool, tr: postgres.NewTransactor(pool)}
}

// Create inserts a new user and sets its ID.
// Returns ErrDuplicateEmail if the email is taken.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (email, password_hash, password_changed, nickname, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		user.Email,
		user.PasswordHash,
		user.PasswordChanged,
		user.Nickname,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return r.get(ctx, query, id)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return r.get(ctx, query, email)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*entities.User, error) {
	var user entities.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.PasswordChanged,
		&user.Nickname,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// List returns all users ordered by ID.
func (r *UserRepository) List(ctx context.Context) ([]*entities.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		var u entities.User
		err = rows.Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.PasswordChanged,
			&u.Nickname,
			&u.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, &u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// UpdatePassword stores a new password hash and the password-changed flag.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string, changed bool) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET password_hash = $1, password_changed = $2 WHERE id = $3`,
		hash, changed, id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// UpdateNickname sets the display nickname.
func (r *UserRepository) UpdateNickname(ctx context.Context, id int64, nickname string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET nickname = $1 WHERE id = $2`, nickname, id)
	if err != nil {
		return fmt.Errorf("update nickname: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// Delete removes a user together with their result log entries.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		// Order depends on FK.
		if _, err := tx.Exec(ctx, `DELETE FROM test_results WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("delete test_results: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrUserNotFound
		}

		return nil
	})
}
