package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestQueue_Enqueue(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_generation_queue")
	ctx := context.Background()

	t.Run("enqueue single job", func(t *testing.T) {
		err := q.Enqueue(ctx, TaskGenerateTests, 42)
		require.NoError(t, err)

		length, err := q.Length(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), length)
	})

	t.Run("enqueue multiple jobs", func(t *testing.T) {
		client.Del(ctx, "test_generation_queue2")
		q2 := NewQueue(client, "test_generation_queue2")

		for i := 1; i <= 5; i++ {
			err := q2.Enqueue(ctx, TaskGenerateTests, int64(i))
			require.NoError(t, err)
		}

		length, err := q2.Length(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), length)
	})
}

func TestQueue_Pop(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_generation_queue")
	ctx := context.Background()

	t.Run("pop returns enqueued message", func(t *testing.T) {
		err := q.Enqueue(ctx, TaskGenerateTests, 7)
		require.NoError(t, err)

		msg, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, msg)
		assert.Equal(t, TaskGenerateTests, msg.Task)
		assert.Equal(t, int64(7), msg.JobID)
	})

	t.Run("pop preserves FIFO order", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			require.NoError(t, q.Enqueue(ctx, TaskGenerateTests, int64(i)))
		}

		for i := 1; i <= 3; i++ {
			msg, err := q.Pop(ctx, time.Second)
			require.NoError(t, err)
			require.NotNil(t, msg)
			assert.Equal(t, int64(i), msg.JobID)
		}
	})

	t.Run("pop times out on empty queue", func(t *testing.T) {
		msg, err := q.Pop(ctx, 50*time.Millisecond)
		require.NoError(t, err)
		assert.Nil(t, msg)
	})
}
