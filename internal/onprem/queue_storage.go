package onprem

import (
	"context"
	"time"
)

// KV is the subset of a gofiber storage driver the queue writes through.
type KV interface {
	Set(key string, val []byte, exp time.Duration) error
	Close() error
}

// StorageQueue writes directives as documents of a key/value store.
type StorageQueue struct {
	kv  KV
	ttl time.Duration
}

// NewStorageQueue wraps a key/value store.
func NewStorageQueue(kv KV, ttl time.Duration) *StorageQueue {
	return &StorageQueue{kv: kv, ttl: ttl}
}

// Enqueue implements Queue.
func (q *StorageQueue) Enqueue(_ context.Context, d Directive) error {
	if err := d.validate(); err != nil {
		return err
	}

	payload, err := d.Payload()
	if err != nil {
		return err
	}

	return q.kv.Set(d.Key(), payload, q.ttl)
}

// Close implements Queue.
func (q *StorageQueue) Close() error {
	return q.kv.Close()
}
