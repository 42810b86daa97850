package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonChannel(t *testing.T) {
	assert.Equal(t, "notifications:person:p-1", PersonChannel("p-1"))
}

func TestRedisNotifierNilClientIsNoop(t *testing.T) {
	n := NewRedisNotifier(nil)
	assert.NoError(t, n.PublishPerson(context.Background(), "p-1", Notification{Event: "review"}))
	assert.NoError(t, n.SubscribePerson(context.Background(), "p-1", func(string) {}))
}

func TestRedisNotifierPublishSubscribe(t *testing.T) {
	_, rdb := newRedis(t)
	n := NewRedisNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 4)
	require.NoError(t, n.SubscribePerson(ctx, "p-1", func(payload string) {
		got <- payload
	}))

	require.NoError(t, n.PublishPerson(context.Background(), "p-2", Notification{Event: "review_approved", Reference: "other"}))
	require.NoError(t, n.PublishPerson(context.Background(), "p-1", Notification{
		Event:     "review_approved",
		Resource:  "certification",
		Reference: "c-1",
		Status:    "approved",
	}))

	select {
	case payload := <-got:
		var note Notification
		require.NoError(t, json.Unmarshal([]byte(payload), &note))
		assert.Equal(t, "review_approved", note.Event)
		assert.Equal(t, "c-1", note.Reference)
		assert.False(t, note.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered")
	}
	assert.Empty(t, got)
}
