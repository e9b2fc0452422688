package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/plainpine/myquest/internal/domain/entities"
)

var ErrSessionExpired = errors.New("exam session expired")

// Grader scores exam submissions and appends them to the result log.
type Grader struct {
	questions QuestionRepository
	results   ResultRepository
	now       func() time.Time
}

// NewGrader creates a new Grader.
func NewGrader(questions QuestionRepository, results ResultRepository) *Grader {
	return &Grader{
		questions: questions,
		results:   results,
		now:       time.Now,
	}
}

// Grade scores answers (question id to 1-based choice) against the pinned
// question ids and records one result entry per graded question.
// Questions deleted since the exam was built are dropped.
func (g *Grader) Grade(
	ctx context.Context,
	sessionQuestionIDs []int64,
	answers map[int64]int,
	userID int64,
) (*entities.GradingReport, error) {
	if len(sessionQuestionIDs) == 0 {
		return nil, ErrSessionExpired
	}

	found, err := g.questions.GetByIDs(ctx, sessionQuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("grade: %w", err)
	}

	byID := make(map[int64]*entities.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}

	report := &entities.GradingReport{}
	entries := make([]*entities.ResultEntry, 0, len(found))
	answeredAt := g.now()

	for _, id := range sessionQuestionIDs {
		q, ok := byID[id]
		if !ok {
			continue
		}

		item := gradeQuestion(q, answers[id])
		report.Add(item)
		entries = append(entries, entities.NewResultEntry(userID, q.ID, item.Correct, answeredAt))
	}

	if len(entries) == 0 {
		return report, nil
	}
	if err := g.results.Append(ctx, entries); err != nil {
		return nil, fmt.Errorf("grade: %w", err)
	}

	return report, nil
}

func gradeQuestion(q *entities.Question, answer int) entities.ReportItem {
	item := entities.ReportItem{
		QuestionID:   q.ID,
		Prompt:       q.Prompt,
		CorrectText:  q.CorrectText(),
		Explanation:  q.Explanation,
		ReferenceURL: q.ReferenceURL,
	}

	switch {
	case !entities.ValidChoice(answer):
		item.Chosen = entities.UnansweredMarker
		item.Status = entities.StatusUnanswered
	case q.IsCorrect(answer):
		item.Chosen = q.Choice(answer)
		item.Correct = true
		item.Status = entities.StatusCorrect
	default:
		item.Chosen = q.Choice(answer)
		item.Status = entities.StatusIncorrect
	}

	return item
}
