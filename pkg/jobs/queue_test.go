package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan string, 2)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		done <- job.ID
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Submit(context.Background(), Job{ID: "a"}))
	require.NoError(t, q.Submit(context.Background(), Job{ID: "b"}))

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-done:
			seen[id] = true
		case <-time.After(time.Second):
			t.Fatal("job not processed")
		}
	}
	assert.True(t, seen["a"])
	assert.True(t, seen["b"])
}

func TestQueueRetriesThenDeadLetters(t *testing.T) {
	var calls int32
	dead := make(chan Job, 1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("smtp down")
	}, QueueConfig{
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		DeadLetter: func(job Job, err error) { dead <- job },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Submit(context.Background(), Job{ID: "mail-1"}))

	select {
	case job := <-dead:
		assert.Equal(t, "mail-1", job.ID)
		assert.Equal(t, 2, job.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job never dead-lettered")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQueueSubmitBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job) error { return nil }, QueueConfig{})
	err := q.Submit(context.Background(), Job{ID: "x"})
	require.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueBackoffCapped(t *testing.T) {
	q := NewQueue("b", nil, QueueConfig{RetryDelay: time.Second, MaxDelay: 5 * time.Second})
	assert.Equal(t, time.Second, q.backoff(0))
	assert.Equal(t, 2*time.Second, q.backoff(1))
	assert.Equal(t, 4*time.Second, q.backoff(2))
	assert.Equal(t, 5*time.Second, q.backoff(3))
}
