package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/repository"
	"github.com/plainpine/myquest/internal/service"
)

func TestChaptersAreNumericAndSorted(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	for _, c := range []string{"10", "2", "practice", "1", "none", "2"} {
		require.NoError(t, store.Questions().Create(ctx, makeQuestion(1, c)))
	}

	svc := service.NewQuestionService(store.Questions(), 20)
	chapters, err := svc.Chapters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "10"}, chapters)
}

func TestListPaginates(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedQuestions(t, store, 45, "1")
	seedQuestions(t, store, 3, "2")

	svc := service.NewQuestionService(store.Questions(), 20)

	page, err := svc.List(ctx, 3, "")
	require.NoError(t, err)
	assert.Equal(t, 48, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Questions, 8)
	assert.True(t, page.HasPrev())
	assert.False(t, page.HasNext())

	page, err = svc.List(ctx, 0, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Questions, 3)

	page, err = svc.List(ctx, 99, "1")
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page, "pages past the end are clamped")
	assert.Len(t, page.Questions, 5)

	page, err = svc.List(ctx, 1, "missing")
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Questions)
}

func TestQuestionCRUD(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := service.NewQuestionService(store.Questions(), 20)

	q := makeQuestion(1, "")
	q.Prompt = "  What is Go?  "
	require.NoError(t, svc.Create(ctx, q))
	assert.Equal(t, entities.CategoryNone, q.Category)

	got, err := svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "What is Go?", got.Prompt)

	got.Correct = 5
	assert.ErrorIs(t, svc.Update(ctx, got), service.ErrInvalidQuestion)

	got.Correct = 4
	got.Explanation = "a language"
	require.NoError(t, svc.Update(ctx, got))

	got, err = svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Correct)
	assert.Equal(t, "a language", got.Explanation)

	require.NoError(t, svc.Delete(ctx, q.ID))
	_, err = svc.Get(ctx, q.ID)
	assert.ErrorIs(t, err, repository.ErrQuestionNotFound)
}

func TestValidateQuestion(t *testing.T) {
	q := makeQuestion(1, "1")
	q.Choices[2] = "   "
	assert.ErrorIs(t, service.ValidateQuestion(q), service.ErrInvalidQuestion)

	q = makeQuestion(1, "1")
	q.Prompt = ""
	assert.ErrorIs(t, service.ValidateQuestion(q), service.ErrInvalidQuestion)

	q = makeQuestion(1, "1")
	q.Correct = 0
	assert.ErrorIs(t, service.ValidateQuestion(q), service.ErrInvalidQuestion)

	q = makeQuestion(1, "1")
	q.Prompt = strings.Repeat("q", service.MaxPromptLength+1)
	assert.ErrorIs(t, service.ValidateQuestion(q), service.ErrInvalidQuestion)

	q = makeQuestion(1, "1")
	q.Choices[3] = strings.Repeat("c", service.MaxChoiceLength+1)
	assert.ErrorIs(t, service.ValidateQuestion(q), service.ErrInvalidQuestion)

	q = makeQuestion(1, "1")
	q.Category = strings.Repeat("9", service.MaxCategoryLength+1)
	assert.ErrorIs(t, service.ValidateQuestion(q), service.ErrInvalidQuestion)

	// Limits count characters, not bytes.
	q = makeQuestion(1, "1")
	q.Prompt = strings.Repeat("問", service.MaxPromptLength)
	assert.NoError(t, service.ValidateQuestion(q))
}
