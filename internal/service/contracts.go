package service

import (
	"context"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/repository"
)

type QuestionRepository interface {
	Create(ctx context.Context, q *entities.Question) error
	CreateMany(ctx context.Context, qs []*entities.Question) error
	GetByID(ctx context.Context, id int64) (*entities.Question, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*entities.Question, error)
	ListAll(ctx context.Context) ([]*entities.Question, error)
	ListByCategory(ctx context.Context, category string) ([]*entities.Question, error)
	Page(ctx context.Context, f repository.QuestionFilter) ([]*entities.Question, int, error)
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, q *entities.Question) error
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id int64) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	List(ctx context.Context) ([]*entities.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string, changed bool) error
	UpdateNickname(ctx context.Context, id int64, nickname string) error
	Delete(ctx context.Context, id int64) error
}

// ResultRepository manages the append-only result log.
type ResultRepository interface {
	// Append stores all entries atomically and sets their IDs.
	Append(ctx context.Context, entries []*entities.ResultEntry) error
	// ListByUser returns the user's entries ordered by question ID, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*entities.ResultEntry, error)
	Stats(ctx context.Context, userID int64) (*entities.ResultStats, error)
}

// ExamState holds the question ids pinned for an exam attempt.
// It is implemented by *session.Session.
type ExamState interface {
	PinExam(key string, ids []int64)
	TakeExam(key string) []int64
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}
