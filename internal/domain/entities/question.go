package entities

import (
	"strconv"
	"strings"
)

// ChoiceCount is the number of choices every question carries.
const ChoiceCount = 4

// Well-known categories. Numeric categories are chapters.
const (
	CategoryPractice = "practice"
	CategoryNone     = "none"
)

// Question is a multiple-choice question from the question bank.
type Question struct {
	ID           int64
	Prompt       string
	Choices      [ChoiceCount]string
	Correct      int    // 1-based index into Choices
	Category     string // numeric strings denote chapters
	Explanation  string // optional
	ReferenceURL string // optional
}

// ValidChoice reports whether n is a valid 1-based choice index.
func ValidChoice(n int) bool {
	return n >= 1 && n <= ChoiceCount
}

// Choice returns the text of the 1-based choice n, or "" when n is out of range.
func (q *Question) Choice(n int) string {
	if !ValidChoice(n) {
		return ""
	}
	return q.Choices[n-1]
}

// CorrectText returns the text of the correct choice.
func (q *Question) CorrectText() string {
	return q.Choice(q.Correct)
}

// IsCorrect reports whether the 1-based answer matches the correct choice.
func (q *Question) IsCorrect(answer int) bool {
	return ValidChoice(answer) && answer == q.Correct
}

// Normalize trims surrounding whitespace from all text fields.
func (q *Question) Normalize() {
	q.Prompt = strings.TrimSpace(q.Prompt)
	for i := range q.Choices {
		q.Choices[i] = strings.TrimSpace(q.Choices[i])
	}
	q.Category = strings.TrimSpace(q.Category)
	q.Explanation = strings.TrimSpace(q.Explanation)
	q.ReferenceURL = strings.TrimSpace(q.ReferenceURL)
}

// IsChapter reports whether category denotes a numbered chapter.
func IsChapter(category string) bool {
	if category == "" {
		return false
	}
	_, err := strconv.Atoi(category)
	return err == nil
}
