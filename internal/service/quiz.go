package service

import (
	"context"
	"fmt"

	"github.com/plainpine/myquest/internal/domain/entities"
)

// Exam is a started exam attempt: the questions in the order they were pinned.
type Exam struct {
	Kind      entities.ExamKind
	Questions []*entities.Question
}

// ProfileStats summarizes a user's progress.
type ProfileStats struct {
	*entities.ResultStats
	Mastered int
	Eligible int
}

// QuizService runs exam attempts: it resolves the question pool of an exam
// kind, pins the sampled set to the session and grades the submission.
type QuizService struct {
	questions QuestionRepository
	results   ResultRepository
	builder   *ExamBuilder
	mastery   *MasteryEvaluator
	grader    *Grader
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	questions QuestionRepository,
	results ResultRepository,
	builder *ExamBuilder,
) *QuizService {
	return &QuizService{
		questions: questions,
		results:   results,
		builder:   builder,
		mastery:   NewMasteryEvaluator(results),
		grader:    NewGrader(questions, results),
	}
}

// StartExam samples up to requested questions for kind and pins their ids to
// state, replacing any previous attempt of the same kind. On error state is
// left untouched.
func (s *QuizService) StartExam(
	ctx context.Context,
	state ExamState,
	kind entities.ExamKind,
	userID int64,
	requested int,
) (*Exam, error) {
	pool, err := s.pool(ctx, kind, userID)
	if err != nil {
		return nil, fmt.Errorf("start %s exam: %w", kind.Mode, err)
	}

	selected, err := s.builder.Build(pool, requested)
	if err != nil {
		return nil, err
	}

	state.PinExam(kind.Key(), questionIDs(selected))

	return &Exam{Kind: kind, Questions: selected}, nil
}

// SubmitExam consumes the pinned attempt of kind and grades answers against it.
func (s *QuizService) SubmitExam(
	ctx context.Context,
	state ExamState,
	kind entities.ExamKind,
	userID int64,
	answers map[int64]int,
) (*entities.GradingReport, error) {
	ids := state.TakeExam(kind.Key())
	return s.grader.Grade(ctx, ids, answers, userID)
}

// Profile returns the user's answer statistics and mastery counts.
func (s *QuizService) Profile(ctx context.Context, userID int64) (*ProfileStats, error) {
	stats, err := s.results.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	m, err := s.mastery.Classify(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	return &ProfileStats{
		ResultStats: stats,
		Mastered:    len(m.Mastered),
		Eligible:    len(m.Eligible),
	}, nil
}

func (s *QuizService) pool(ctx context.Context, kind entities.ExamKind, userID int64) ([]*entities.Question, error) {
	switch kind.Mode {
	case entities.ModePractice:
		return s.questions.ListAll(ctx)
	case entities.ModeSection:
		return s.questions.ListByCategory(ctx, kind.Category)
	case entities.ModeRetest:
		ids, err := s.mastery.EligibleForRetest(ctx, userID)
		if err != nil {
			return nil, err
		}
		return s.questions.GetByIDs(ctx, ids)
	default:
		return nil, fmt.Errorf("unknown exam mode %q", kind.Mode)
	}
}
