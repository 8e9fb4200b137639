package onprem

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaQueue produces directives to a topic, keyed so a compacted topic keeps the latest
// directive per object and property.
type KafkaQueue struct {
	client *kgo.Client
}

// NewKafkaQueue wraps a client configured with a default produce topic.
func NewKafkaQueue(client *kgo.Client) *KafkaQueue {
	return &KafkaQueue{client: client}
}

// Enqueue implements Queue.
func (q *KafkaQueue) Enqueue(ctx context.Context, d Directive) error {
	if err := d.validate(); err != nil {
		return err
	}

	payload, err := d.Payload()
	if err != nil {
		return err
	}

	return q.client.ProduceSync(ctx, &kgo.Record{Key: []byte(d.Key()), Value: payload}).FirstErr()
}

// Close implements Queue.
func (q *KafkaQueue) Close() error {
	q.client.Close()

	return nil
}
