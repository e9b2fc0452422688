package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/service"
)

func pool(n int) []*entities.Question {
	qs := make([]*entities.Question, n)
	for i := range qs {
		q := makeQuestion(i+1, "1")
		q.ID = int64(i + 1)
		qs[i] = q
	}
	return qs
}

func TestBuildReturnsDistinctSampleFromPool(t *testing.T) {
	b := service.NewExamBuilderWithSeed(42)

	for _, size := range []int{1, 2, 4, 7, 25} {
		for _, k := range []int{1, 3, 4, 10, 30} {
			p := pool(size)
			got, err := b.Build(p, k)
			require.NoError(t, err)
			require.Len(t, got, min(k, size), "pool=%d k=%d", size, k)

			members := make(map[int64]bool, size)
			for _, q := range p {
				members[q.ID] = true
			}
			seen := make(map[int64]bool, len(got))
			for _, q := range got {
				assert.True(t, members[q.ID], "question %d not from pool", q.ID)
				assert.False(t, seen[q.ID], "question %d selected twice", q.ID)
				seen[q.ID] = true
			}
		}
	}
}

func TestBuildSmallPoolReturnsEverything(t *testing.T) {
	b := service.NewExamBuilderWithSeed(1)

	got, err := b.Build(pool(4), 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, ids(got))
}

func TestBuildLeavesPoolUntouched(t *testing.T) {
	b := service.NewExamBuilderWithSeed(7)
	p := pool(10)

	_, err := b.Build(p, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(p))
}

func TestBuildIsRandom(t *testing.T) {
	b := service.NewExamBuilderWithSeed(3)
	p := pool(20)

	first := make(map[int64]int)
	for range 200 {
		got, err := b.Build(p, 1)
		require.NoError(t, err)
		first[got[0].ID]++
	}
	assert.Greater(t, len(first), 10, "a uniform sample should reach most of the pool")
}

func TestBuildErrors(t *testing.T) {
	b := service.NewExamBuilder()

	_, err := b.Build(nil, 10)
	assert.ErrorIs(t, err, service.ErrNoQuestionsAvailable)

	_, err = b.Build(pool(3), 0)
	assert.ErrorIs(t, err, service.ErrInvalidQuestionCount)
}

func ids(qs []*entities.Question) []int64 {
	out := make([]int64, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
