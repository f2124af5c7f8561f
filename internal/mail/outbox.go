package mail

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOutbox is a FIFO of pending messages stored in a Redis list.
type RedisOutbox struct {
	client *redis.Client
	key    string
}

// NewRedisOutbox builds an outbox on the given list key.
func NewRedisOutbox(client *redis.Client, key string) *RedisOutbox {
	return &RedisOutbox{client: client, key: key}
}

// Enqueue appends msg to the outbox.
func (o *RedisOutbox) Enqueue(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return o.client.LPush(ctx, o.key, payload).Err()
}

// Dequeue blocks up to timeout for the oldest message. It returns nil, nil
// when the wait times out.
func (o *RedisOutbox) Dequeue(ctx context.Context, timeout time.Duration) (*Message, error) {
	res, err := o.client.BRPop(ctx, timeout, o.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	// res is [key, value]
	if len(res) != 2 {
		return nil, errors.New("unexpected outbox reply")
	}
	var msg Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
