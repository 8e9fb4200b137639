package notify

import (
	"context"
	"sync"
)

// Recorder keeps every message it is asked to send.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Name implements Sender.
func (r *Recorder) Name() string { return "recorder" }

// Send implements Sender.
func (r *Recorder) Send(_ context.Context, m Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, m)

	return nil
}

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Message(nil), r.messages...)
}
