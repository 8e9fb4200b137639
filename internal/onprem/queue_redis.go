package onprem

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyIndex = "onprem_changes"

// RedisQueue stores each directive under its key and records the key in an index set.
type RedisQueue struct {
	client *redis.Client
	index  string
	ttl    time.Duration
}

// NewRedisQueue wraps a connected client.
func NewRedisQueue(client *redis.Client, index string, ttl time.Duration) *RedisQueue {
	if index == "" {
		index = defaultKeyIndex
	}

	return &RedisQueue{client: client, index: index, ttl: ttl}
}

// Enqueue implements Queue.
func (q *RedisQueue) Enqueue(ctx context.Context, d Directive) error {
	if err := d.validate(); err != nil {
		return err
	}

	payload, err := d.Payload()
	if err != nil {
		return err
	}

	key := d.Key()

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, payload, q.ttl)
		pipe.SAdd(ctx, q.index, key)

		return nil
	})

	return err
}

// Close implements Queue.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
