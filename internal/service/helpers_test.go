package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/infra/sqlite"
	"github.com/plainpine/myquest/internal/service"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newHasher() *service.BcryptHasher {
	return service.NewBcryptHasher(bcrypt.MinCost)
}

func makeQuestion(n int, category string) *entities.Question {
	return &entities.Question{
		Prompt:   fmt.Sprintf("Question %d?", n),
		Choices:  [entities.ChoiceCount]string{"alpha", "beta", "gamma", "delta"},
		Correct:  n%entities.ChoiceCount + 1,
		Category: category,
	}
}

// seedQuestions stores count questions in category and returns them in insertion order.
func seedQuestions(t *testing.T, store *sqlite.Store, count int, category string) []*entities.Question {
	t.Helper()
	qs := make([]*entities.Question, count)
	for i := range qs {
		qs[i] = makeQuestion(i+1, category)
	}
	require.NoError(t, store.Questions().CreateMany(context.Background(), qs))
	return qs
}

func seedUser(t *testing.T, store *sqlite.Store, email string) *entities.User {
	t.Helper()
	u := entities.NewUser(email, "hash", "")
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}
