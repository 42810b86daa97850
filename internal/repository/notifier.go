package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Notification is an in-app event pushed to a person.
type Notification struct {
	Event     string            `json:"event"`
	Resource  string            `json:"resource"`
	Reference string            `json:"reference"`
	Status    string            `json:"status,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	At        time.Time         `json:"at"`
}

// PersonChannel derives the channel of a person.
func PersonChannel(personID string) string {
	return "notifications:person:" + personID
}

// RedisNotifier publishes in-app notifications into Redis channels.
type RedisNotifier struct {
	rdb *redis.Client
}

// NewRedisNotifier constructs a notifier; a nil client makes every call a no-op.
func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

// PublishPerson sends n to the person's channel.
func (n *RedisNotifier) PublishPerson(ctx context.Context, personID string, note Notification) error {
	if n == nil || n.rdb == nil || personID == "" {
		return nil
	}
	if note.At.IsZero() {
		note.At = time.Now().UTC()
	}
	payload, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return n.rdb.Publish(ctx, PersonChannel(personID), payload).Err()
}

// SubscribePerson listens on the channel of personID until ctx is cancelled.
func (n *RedisNotifier) SubscribePerson(ctx context.Context, personID string, onMessage func(payload string)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, PersonChannel(personID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe notifications: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				onMessage(msg.Payload)
			}
		}
	}()
	return nil
}
