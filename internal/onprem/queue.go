package onprem

import (
	"context"
	"fmt"
	"time"

	mysqlstorage "github.com/gofiber/storage/mysql/v2"
	postgresstorage "github.com/gofiber/storage/postgres/v3"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Queue backends.
const (
	BackendMemory   = "memory"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendKafka    = "kafka"
)

// Queue accepts directives for the external applier.
type Queue interface {
	Enqueue(ctx context.Context, d Directive) error
	Close() error
}

// QueueConfig selects and configures the directive queue backend.
type QueueConfig struct {
	Backend string `validate:"omitempty,oneof=memory mysql postgres redis kafka"`

	// TTL expires unconsumed directives, zero keeps them until consumed.
	TTL time.Duration

	// mysql and postgres
	ConnectionURI string
	Table         string

	// redis
	RedisURL string
	KeyIndex string // set holding all pending keys

	// kafka
	Brokers []string
	Topic   string
}

// NewQueue opens the configured backend.
func NewQueue(ctx context.Context, cfg QueueConfig) (Queue, error) {
	if cfg.Table == "" {
		cfg.Table = "onprem_directives"
	}

	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryQueue(), nil
	case BackendMySQL:
		return NewStorageQueue(mysqlstorage.New(mysqlstorage.Config{
			ConnectionURI: cfg.ConnectionURI,
			Table:         cfg.Table,
		}), cfg.TTL), nil
	case BackendPostgres:
		return NewStorageQueue(postgresstorage.New(postgresstorage.Config{
			ConnectionURI: cfg.ConnectionURI,
			Table:         cfg.Table,
		}), cfg.TTL), nil
	case BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis URL: %w", err)
		}

		client := redis.NewClient(opts)
		if err = client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}

		return NewRedisQueue(client, cfg.KeyIndex, cfg.TTL), nil
	case BackendKafka:
		client, err := kgo.NewClient(
			kgo.SeedBrokers(cfg.Brokers...),
			kgo.DefaultProduceTopic(cfg.Topic),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka client: %w", err)
		}

		if err = client.Ping(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("kafka ping failed: %w", err)
		}

		return NewKafkaQueue(client), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueueBackend, cfg.Backend)
	}
}
