// Package repository holds the storage-neutral contract shared by the
// Postgres and SQLite implementations: sentinel errors and query types.
package repository

import "errors"

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("email already registered")
)

// QuestionFilter selects a page of questions.
type QuestionFilter struct {
	Category string // empty means all categories
	Limit    int
	Offset   int
}
