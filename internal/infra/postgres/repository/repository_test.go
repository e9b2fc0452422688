package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/infra/postgres"
	pgrepo "github.com/plainpine/myquest/internal/infra/postgres/repository"
	"github.com/plainpine/myquest/internal/repository"
)

// openTestPool connects to MYQUEST_TEST_DSN and empties all tables.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("MYQUEST_TEST_DSN")
	if dsn == "" {
		t.Skip("MYQUEST_TEST_DSN is not set")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE test_results, users, questions RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}

func newQuestion(prompt, category string) *entities.Question {
	return &entities.Question{
		Prompt:   prompt,
		Choices:  [4]string{"a", "b", "c", "d"},
		Correct:  3,
		Category: category,
	}
}

func TestQuestionRepository(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	repo := pgrepo.NewQuestionRepository(pool)

	qs := []*entities.Question{
		newQuestion("q1", "1"),
		newQuestion("q2", "2"),
		newQuestion("q3", "1"),
	}
	require.NoError(t, repo.CreateMany(ctx, qs))
	for _, q := range qs {
		assert.NotZero(t, q.ID)
	}

	got, err := repo.GetByID(ctx, qs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, qs[0], got)

	byCategory, err := repo.ListByCategory(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	byIDs, err := repo.GetByIDs(ctx, []int64{qs[2].ID, 9999, qs[0].ID})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)
	assert.Equal(t, qs[0].ID, byIDs[0].ID)

	page, total, err := repo.Page(ctx, repository.QuestionFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "q3", page[0].Prompt)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, categories)

	qs[1].Prompt = "edited"
	require.NoError(t, repo.Update(ctx, qs[1]))
	got, err = repo.GetByID(ctx, qs[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Prompt)

	require.NoError(t, repo.Delete(ctx, qs[1].ID))
	_, err = repo.GetByID(ctx, qs[1].ID)
	assert.ErrorIs(t, err, repository.ErrQuestionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, qs[1].ID), repository.ErrQuestionNotFound)
}

func TestUserRepository(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	repo := pgrepo.NewUserRepository(pool)

	u := entities.NewUser("a@example.com", "hash", "A")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	err := repo.Create(ctx, entities.NewUser("a@example.com", "hash", ""))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash", true))
	got, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.True(t, got.PasswordChanged)

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestResultRepository(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	questions := pgrepo.NewQuestionRepository(pool)
	users := pgrepo.NewUserRepository(pool)
	results := pgrepo.NewResultRepository(pool)

	q1, q2 := newQuestion("q1", "1"), newQuestion("q2", "2")
	require.NoError(t, questions.CreateMany(ctx, []*entities.Question{q1, q2}))
	u := entities.NewUser("r@example.com", "hash", "")
	require.NoError(t, users.Create(ctx, u))

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []*entities.ResultEntry{
		entities.NewResultEntry(u.ID, q1.ID, true, at),
		entities.NewResultEntry(u.ID, q1.ID, false, at.Add(time.Minute)),
		entities.NewResultEntry(u.ID, q2.ID, true, at.Add(2*time.Minute)),
	}
	require.NoError(t, results.Append(ctx, entries))

	log, err := results.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, log, 3)

	stats, err := results.Stats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Answered)
	assert.Equal(t, 2, stats.Correct)
	require.NotNil(t, stats.LastAnsweredAt)
	assert.True(t, stats.LastAnsweredAt.Equal(at.Add(2*time.Minute)))
	require.Len(t, stats.Categories, 2)
	assert.Equal(t, entities.CategoryStats{Category: "1", Answered: 2, Correct: 1}, stats.Categories[0])
}
