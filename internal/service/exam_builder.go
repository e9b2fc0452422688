package service

import (
	"errors"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/plainpine/myquest/internal/domain/entities"
)

var (
	ErrNoQuestionsAvailable = errors.New("no questions available")
	ErrInvalidQuestionCount = errors.New("question count must be positive")
)

// ExamBuilder samples the question set of an exam attempt.
type ExamBuilder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewExamBuilder creates a new ExamBuilder.
func NewExamBuilder() *ExamBuilder {
	return NewExamBuilderWithSeed(time.Now().UnixNano())
}

// NewExamBuilderWithSeed creates an ExamBuilder with a deterministic source.
func NewExamBuilderWithSeed(seed int64) *ExamBuilder {
	return &ExamBuilder{rng: rand.New(rand.NewSource(seed))}
}

// Build returns min(requested, len(pool)) distinct questions drawn uniformly
// at random from pool. The pool itself is left untouched.
func (b *ExamBuilder) Build(pool []*entities.Question, requested int) ([]*entities.Question, error) {
	if requested < 1 {
		return nil, ErrInvalidQuestionCount
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	n := min(requested, len(pool))
	out := slices.Clone(pool)

	b.mu.Lock()
	for i := range n {
		j := i + b.rng.Intn(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}
	b.mu.Unlock()

	return out[:n:n], nil
}

// questionIDs returns the ids of qs in order.
func questionIDs(qs []*entities.Question) []int64 {
	ids := make([]int64, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return ids
}
