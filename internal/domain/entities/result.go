package entities

import "time"

// ResultEntry is a single answer in the result log. Entries are append-only.
type ResultEntry struct {
	ID         int64
	UserID     int64
	QuestionID int64
	Correct    bool
	AnsweredAt time.Time
}

// NewResultEntry creates a result entry answered at the given time.
func NewResultEntry(userID, questionID int64, correct bool, answeredAt time.Time) *ResultEntry {
	return &ResultEntry{
		UserID:     userID,
		QuestionID: questionID,
		Correct:    correct,
		AnsweredAt: answeredAt.UTC(),
	}
}

// CategoryStats aggregates answers within one category.
type CategoryStats struct {
	Category string
	Answered int
	Correct  int
}

// Accuracy returns the share of correct answers in percent.
func (s CategoryStats) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered) * 100
}

// ResultStats summarizes a user's result log.
type ResultStats struct {
	Answered       int
	Correct        int
	LastAnsweredAt *time.Time
	Categories     []CategoryStats
}

// Accuracy returns the share of correct answers in percent.
func (s *ResultStats) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered) * 100
}
