package onprem_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kfake"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/itassets/identity-sync/internal/onprem"
)

const directiveKey = "onprem_changes/" + guid + "_Title.json"

func decodeDirective(t *testing.T, raw []byte) onprem.Directive {
	t.Helper()

	var d onprem.Directive
	require.NoError(t, json.Unmarshal(raw, &d))

	return d
}

func TestRedisQueue(t *testing.T) {
	testCases := []struct {
		name  string
		index string
		ttl   time.Duration
		set   string
	}{
		{name: "default index with ttl", ttl: time.Hour, set: "onprem_changes"},
		{name: "custom index without ttl", index: "pending", set: "pending"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			mr := miniredis.RunT(t)
			q := onprem.NewRedisQueue(redis.NewClient(&redis.Options{Addr: mr.Addr()}), tc.index, tc.ttl)

			require.NoError(t, q.Enqueue(ctx, onprem.Directive{Identity: guid, Property: "Title", Value: "Ranger"}))
			require.NoError(t, q.Enqueue(ctx, onprem.Directive{Identity: guid, Property: "Title", Value: "Senior Ranger"}))
			require.ErrorIs(t, q.Enqueue(ctx, onprem.Directive{Identity: guid}), onprem.ErrDirectiveIncomplete)

			assert.ElementsMatch(t, []string{directiveKey, tc.set}, mr.Keys())

			raw, err := mr.Get(directiveKey)
			require.NoError(t, err)
			assert.Equal(t, onprem.Directive{Identity: guid, Property: "Title", Value: "Senior Ranger"}, decodeDirective(t, []byte(raw)))
			assert.Equal(t, tc.ttl, mr.TTL(directiveKey))

			members, err := mr.Members(tc.set)
			require.NoError(t, err)
			assert.Equal(t, []string{directiveKey}, members)

			require.NoError(t, q.Close())
		})
	}
}

func TestRedisQueueUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	q := onprem.NewRedisQueue(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "", 0)
	mr.Close()

	err := q.Enqueue(context.Background(), onprem.Directive{Identity: guid, Property: "Title", Value: "Ranger"})
	assert.Error(t, err)
}

func TestNewQueueRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	q, err := onprem.NewQueue(ctx, onprem.QueueConfig{Backend: onprem.BackendRedis, RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)

	t.Cleanup(func() { _ = q.Close() })

	require.IsType(t, &onprem.RedisQueue{}, q)
	require.NoError(t, q.Enqueue(ctx, onprem.Directive{Identity: guid, Property: "Title", Value: "Ranger"}))
	assert.True(t, mr.Exists(directiveKey))

	_, err = onprem.NewQueue(ctx, onprem.QueueConfig{Backend: onprem.BackendRedis, RedisURL: "://nope"})
	assert.Error(t, err)
}

func newKafkaCluster(t *testing.T, topic string) *kfake.Cluster {
	t.Helper()

	c, err := kfake.NewCluster(kfake.NumBrokers(1), kfake.SeedTopics(1, topic))
	require.NoError(t, err)

	t.Cleanup(c.Close)

	return c
}

func consumeAll(t *testing.T, brokers []string, topic string, want int) []*kgo.Record {
	t.Helper()

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)

	t.Cleanup(consumer.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var records []*kgo.Record

	for len(records) < want {
		fetches := consumer.PollFetches(ctx)
		require.NoError(t, ctx.Err(), "timed out waiting for records")

		fetches.EachRecord(func(r *kgo.Record) {
			records = append(records, r)
		})
	}

	return records
}

func TestKafkaQueue(t *testing.T) {
	const topic = "onprem-changes"

	ctx := context.Background()
	c := newKafkaCluster(t, topic)

	client, err := kgo.NewClient(kgo.SeedBrokers(c.ListenAddrs()...), kgo.DefaultProduceTopic(topic))
	require.NoError(t, err)

	q := onprem.NewKafkaQueue(client)

	t.Cleanup(func() { _ = q.Close() })

	require.NoError(t, q.Enqueue(ctx, onprem.Directive{Identity: guid, Property: "Title", Value: "Ranger"}))
	require.NoError(t, q.Enqueue(ctx, onprem.Directive{Identity: guid, Property: "Manager", Value: nil}))
	require.ErrorIs(t, q.Enqueue(ctx, onprem.Directive{Property: "Title"}), onprem.ErrDirectiveIncomplete)

	records := consumeAll(t, c.ListenAddrs(), topic, 2)
	require.Len(t, records, 2)

	assert.Equal(t, directiveKey, string(records[0].Key))
	assert.Equal(t, onprem.Directive{Identity: guid, Property: "Title", Value: "Ranger"}, decodeDirective(t, records[0].Value))

	assert.Equal(t, "onprem_changes/"+guid+"_Manager.json", string(records[1].Key))
	assert.Equal(t, onprem.Directive{Identity: guid, Property: "Manager"}, decodeDirective(t, records[1].Value))
}

func TestNewQueueKafka(t *testing.T) {
	const topic = "directives"

	ctx := context.Background()
	c := newKafkaCluster(t, topic)

	q, err := onprem.NewQueue(ctx, onprem.QueueConfig{Backend: onprem.BackendKafka, Brokers: c.ListenAddrs(), Topic: topic})
	require.NoError(t, err)

	t.Cleanup(func() { _ = q.Close() })

	require.IsType(t, &onprem.KafkaQueue{}, q)
	require.NoError(t, q.Enqueue(ctx, onprem.Directive{Identity: guid, Property: "Title", Value: "Ranger"}))

	records := consumeAll(t, c.ListenAddrs(), topic, 1)
	assert.Equal(t, directiveKey, string(records[0].Key))
}
