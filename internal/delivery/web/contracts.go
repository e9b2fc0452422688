package web

import (
	"context"
	"io"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/service"
)

type QuizService interface {
	StartExam(
		ctx context.Context,
		state service.ExamState,
		kind entities.ExamKind,
		userID int64,
		requested int,
	) (*service.Exam, error)
	SubmitExam(
		ctx context.Context,
		state service.ExamState,
		kind entities.ExamKind,
		userID int64,
		answers map[int64]int,
	) (*entities.GradingReport, error)
	Profile(ctx context.Context, userID int64) (*service.ProfileStats, error)
}

type UserService interface {
	Login(ctx context.Context, email, password string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByID(ctx context.Context, id int64) (*entities.User, error)
	IsAdmin(email string) bool
	ChangePassword(ctx context.Context, userID int64, password, confirm string) error
	ResetPassword(ctx context.Context, userID int64, password, confirm string) error
	UpdateProfile(ctx context.Context, userID int64, nickname string) error
	CreateUserConfirmed(ctx context.Context, email, password, confirm, nickname string) (*entities.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]*entities.User, error)
}

type QuestionService interface {
	Chapters(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
	List(ctx context.Context, page int, category string) (*service.QuestionPage, error)
	Get(ctx context.Context, id int64) (*entities.Question, error)
	Create(ctx context.Context, q *entities.Question) error
	Update(ctx context.Context, q *entities.Question) error
	Delete(ctx context.Context, id int64) error
}

type InterchangeService interface {
	Export(ctx context.Context, w io.Writer) (int, error)
}

// HealthChecker reports whether the storage is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
