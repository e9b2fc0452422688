package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("MYQUEST_TEST_REDIS")
	if addr == "" {
		t.Skip("MYQUEST_TEST_REDIS not set")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, RedisOptions{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedisStorage(client)
	id := uuid.NewString()

	require.NoError(t, s.Save(ctx, id, []byte(`{"email":"a@b.c"}`), time.Minute))
	data, ok, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"email":"a@b.c"}`, string(data))

	ttl, err := client.TTL(ctx, sessionKeyPrefix+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, s.Delete(ctx, id))
	_, ok, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}
