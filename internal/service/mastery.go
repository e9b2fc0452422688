package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/plainpine/myquest/internal/domain/entities"
)

// MasteryWindow is the number of most recent attempts considered per question.
const MasteryWindow = 3

// Mastery is the classification of every question a user has attempted.
type Mastery struct {
	Mastered []int64
	Eligible []int64
}

// MasteryEvaluator decides which attempted questions a user has mastered.
type MasteryEvaluator struct {
	results ResultRepository
}

// NewMasteryEvaluator creates a new MasteryEvaluator.
func NewMasteryEvaluator(results ResultRepository) *MasteryEvaluator {
	return &MasteryEvaluator{results: results}
}

// EligibleForRetest returns the ids of questions the user attempted but has
// not mastered, in ascending order.
func (e *MasteryEvaluator) EligibleForRetest(ctx context.Context, userID int64) ([]int64, error) {
	m, err := e.Classify(ctx, userID)
	if err != nil {
		return nil, err
	}
	return m.Eligible, nil
}

// Classify splits the user's attempted questions into mastered and eligible.
func (e *MasteryEvaluator) Classify(ctx context.Context, userID int64) (*Mastery, error) {
	log, err := e.results.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("classify mastery: %w", err)
	}
	return ClassifyLog(log), nil
}

// ClassifyLog applies the mastery rule to a result log: a question is mastered
// iff its MasteryWindow most recent attempts exist and are all correct.
func ClassifyLog(log []*entities.ResultEntry) *Mastery {
	entries := slices.Clone(log)
	slices.SortStableFunc(entries, func(a, b *entities.ResultEntry) int {
		if c := cmp.Compare(a.QuestionID, b.QuestionID); c != 0 {
			return c
		}
		if c := b.AnsweredAt.Compare(a.AnsweredAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	m := &Mastery{}
	for i := 0; i < len(entries); {
		qid := entries[i].QuestionID

		j := i
		for j < len(entries) && entries[j].QuestionID == qid {
			j++
		}

		window := entries[i:min(j, i+MasteryWindow)]
		if len(window) == MasteryWindow && allCorrect(window) {
			m.Mastered = append(m.Mastered, qid)
		} else {
			m.Eligible = append(m.Eligible, qid)
		}

		i = j
	}

	return m
}

func allCorrect(entries []*entities.ResultEntry) bool {
	for _, e := range entries {
		if !e.Correct {
			return false
		}
	}
	return true
}
