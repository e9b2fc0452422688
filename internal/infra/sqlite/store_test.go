package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/repository"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newQuestion(prompt, category string) *entities.Question {
	return &entities.Question{
		Prompt:   prompt,
		Choices:  [4]string{"a", "b", "c", "d"},
		Correct:  2,
		Category: category,
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	var fk string
	require.NoError(t, s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, "1", fk)
}

func TestQuestionCRUD(t *testing.T) {
	s := openTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	q := newQuestion("What is PEP8?", "1")
	q.Explanation = "style guide"
	q.ReferenceURL = "https://peps.python.org/pep-0008/"
	require.NoError(t, repo.Create(ctx, q))
	require.NotZero(t, q.ID)

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q, got)

	got.Prompt = "What does PEP8 define?"
	got.Correct = 4
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "What does PEP8 define?", updated.Prompt)
	assert.Equal(t, 4, updated.Correct)

	require.NoError(t, repo.Delete(ctx, q.ID))

	_, err = repo.GetByID(ctx, q.ID)
	assert.ErrorIs(t, err, repository.ErrQuestionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, q.ID), repository.ErrQuestionNotFound)
	assert.ErrorIs(t, repo.Update(ctx, q), repository.ErrQuestionNotFound)
}

func TestQuestionCorrectConstraint(t *testing.T) {
	s := openTestStore(t)

	q := newQuestion("bad", "1")
	q.Correct = 5
	assert.Error(t, s.Questions().Create(context.Background(), q))
}

func TestQuestionQueries(t *testing.T) {
	s := openTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	var all []*entities.Question
	for i, c := range []string{"1", "2", "1", "practice", "2", "1"} {
		q := newQuestion("q"+string(rune('a'+i)), c)
		all = append(all, q)
	}
	require.NoError(t, repo.CreateMany(ctx, all))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "practice"}, cats)

	chapter1, err := repo.ListByCategory(ctx, "1")
	require.NoError(t, err)
	require.Len(t, chapter1, 3)
	for _, q := range chapter1 {
		assert.Equal(t, "1", q.Category)
	}

	byIDs, err := repo.GetByIDs(ctx, []int64{all[4].ID, all[0].ID, 9999})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)
	assert.Equal(t, all[0].ID, byIDs[0].ID)
	assert.Equal(t, all[4].ID, byIDs[1].ID)

	none, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	page, total, err := repo.Page(ctx, repository.QuestionFilter{Limit: 4, Offset: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	require.Len(t, page, 2)
	assert.Equal(t, all[4].ID, page[0].ID)

	page, total, err = repo.Page(ctx, repository.QuestionFilter{Category: "2", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, page, 2)
}

func TestUserRepository(t *testing.T) {
	s := openTestStore(t)
	repo := s.Users()
	ctx := context.Background()

	u := entities.NewUser("Student@Example.com", "hash", "student")
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	dup := entities.NewUser("student@example.com", "hash2", "")
	assert.ErrorIs(t, repo.Create(ctx, dup), repository.ErrDuplicateEmail)

	got, err := repo.GetByEmail(ctx, "student@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.False(t, got.PasswordChanged)
	assert.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Millisecond)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "newhash", true))
	require.NoError(t, repo.UpdateNickname(ctx, u.ID, "nick"))

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)
	assert.True(t, got.PasswordChanged)
	assert.Equal(t, "nick", got.Nickname)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.ErrorIs(t, repo.UpdateNickname(ctx, 9999, "x"), repository.ErrUserNotFound)
}

func TestResultLogOrderingAndCascade(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := entities.NewUser("s@example.com", "hash", "")
	require.NoError(t, s.Users().Create(ctx, u))

	q1 := newQuestion("q1", "1")
	q2 := newQuestion("q2", "2")
	require.NoError(t, s.Questions().CreateMany(ctx, []*entities.Question{q1, q2}))

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	entries := []*entities.ResultEntry{
		entities.NewResultEntry(u.ID, q2.ID, true, base),
		entities.NewResultEntry(u.ID, q1.ID, false, base),
		entities.NewResultEntry(u.ID, q1.ID, true, base.Add(2*time.Hour)),
		entities.NewResultEntry(u.ID, q1.ID, true, base.Add(time.Hour)),
	}
	require.NoError(t, s.Results().Append(ctx, entries))
	for _, e := range entries {
		assert.NotZero(t, e.ID)
	}

	log, err := s.Results().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, log, 4)
	assert.Equal(t, q1.ID, log[0].QuestionID)
	assert.Equal(t, base.Add(2*time.Hour), log[0].AnsweredAt)
	assert.Equal(t, base.Add(time.Hour), log[1].AnsweredAt)
	assert.Equal(t, base, log[2].AnsweredAt)
	assert.Equal(t, q2.ID, log[3].QuestionID)

	stats, err := s.Results().Stats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Answered)
	assert.Equal(t, 3, stats.Correct)
	require.NotNil(t, stats.LastAnsweredAt)
	assert.Equal(t, base.Add(2*time.Hour), *stats.LastAnsweredAt)
	require.Len(t, stats.Categories, 2)
	assert.Equal(t, entities.CategoryStats{Category: "1", Answered: 3, Correct: 2}, stats.Categories[0])

	// Deleting a question removes its results first.
	require.NoError(t, s.Questions().Delete(ctx, q1.ID))
	log, err = s.Results().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, log, 1)

	// Deleting the user removes the rest.
	require.NoError(t, s.Users().Delete(ctx, u.ID))
	log, err = s.Results().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestResultAppendRejectsUnknownQuestion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := entities.NewUser("s@example.com", "hash", "")
	require.NoError(t, s.Users().Create(ctx, u))
	q := newQuestion("q", "1")
	require.NoError(t, s.Questions().Create(ctx, q))

	err := s.Results().Append(ctx, []*entities.ResultEntry{
		entities.NewResultEntry(u.ID, q.ID, true, time.Now()),
		entities.NewResultEntry(u.ID, 9999, true, time.Now()),
	})
	require.Error(t, err)

	// The batch is all-or-nothing.
	log, err := s.Results().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, log)
}
