package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/repository"
)

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6
	// MaxPasswordLength is the bcrypt input limit in bytes.
	MaxPasswordLength = 72

	MaxEmailLength    = 120
	MaxNicknameLength = 80
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("password must be at most %d bytes", MaxPasswordLength)
	ErrNicknameTooLong    = fmt.Errorf("nickname must be at most %d characters", MaxNicknameLength)
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrProtectedAccount   = errors.New("the admin account cannot be deleted")
)

type UserService struct {
	repository UserRepository
	hasher     PasswordHasher
	adminEmail string
}

func NewUserService(repository UserRepository, hasher PasswordHasher, adminEmail string) *UserService {
	return &UserService{
		repository: repository,
		hasher:     hasher,
		adminEmail: entities.NormalizeEmail(adminEmail),
	}
}

// Login checks the credentials and returns the matching user.
func (s *UserService) Login(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.repository.GetByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetByEmail returns the user with the given email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return s.repository.GetByEmail(ctx, entities.NormalizeEmail(email))
}

// GetByID returns the user with the given id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return s.repository.GetByID(ctx, id)
}

// IsAdmin reports whether email identifies the admin account.
func (s *UserService) IsAdmin(email string) bool {
	return s.adminEmail != "" && entities.NormalizeEmail(email) == s.adminEmail
}

// ChangePassword sets a new password chosen by the user and lifts the
// forced change flag.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, password, confirm string) error {
	return s.setPassword(ctx, userID, password, confirm, true)
}

// ResetPassword sets a password on behalf of the user. The user must change
// it on the next login.
func (s *UserService) ResetPassword(ctx context.Context, userID int64, password, confirm string) error {
	return s.setPassword(ctx, userID, password, confirm, false)
}

func (s *UserService) setPassword(ctx context.Context, userID int64, password, confirm string, changed bool) error {
	if err := validatePassword(password, confirm); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	return s.repository.UpdatePassword(ctx, userID, hash, changed)
}

// UpdateProfile changes the user's nickname.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if utf8.RuneCountInString(nickname) > MaxNicknameLength {
		return ErrNicknameTooLong
	}
	return s.repository.UpdateNickname(ctx, userID, nickname)
}

// CreateUser adds an account that must change its password on first login.
func (s *UserService) CreateUser(ctx context.Context, email, password, nickname string) (*entities.User, error) {
	return s.create(ctx, email, password, password, nickname, false)
}

// CreateUserConfirmed is CreateUser with a password confirmation, as entered on forms.
func (s *UserService) CreateUserConfirmed(ctx context.Context, email, password, confirm, nickname string) (*entities.User, error) {
	return s.create(ctx, email, password, confirm, nickname, false)
}

// EnsureUser creates the account unless a user with that email already exists.
// It reports whether a user was created.
func (s *UserService) EnsureUser(
	ctx context.Context,
	email, password, nickname string,
	passwordChanged bool,
) (*entities.User, bool, error) {
	user, err := s.GetByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, err
	}

	user, err = s.create(ctx, email, password, password, nickname, passwordChanged)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *UserService) create(
	ctx context.Context,
	email, password, confirm, nickname string,
	passwordChanged bool,
) (*entities.User, error) {
	email = entities.NormalizeEmail(email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePassword(password, confirm); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(strings.TrimSpace(nickname)) > MaxNicknameLength {
		return nil, ErrNicknameTooLong
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := entities.NewUser(email, hash, nickname)
	user.PasswordChanged = passwordChanged

	if err := s.repository.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes a user and their result log. The admin account is protected.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.IsAdmin(user.Email) {
		return ErrProtectedAccount
	}

	return s.repository.Delete(ctx, id)
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]*entities.User, error) {
	return s.repository.List(ctx)
}

func validatePassword(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

func validEmail(email string) bool {
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
