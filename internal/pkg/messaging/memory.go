package messaging

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Published is a message recorded by Memory.
type Published struct {
	Topic   string
	Message Message
}

// Memory keeps published messages in process. It is the default driver for
// local development and is used in tests.
type Memory struct {
	seq    atomic.Uint64
	closed atomic.Bool

	mu   sync.Mutex
	msgs []Published
}

// NewMemory returns an empty in-process publisher.
func NewMemory() *Memory {
	return &Memory{}
}

// Publish records msg under topic.
func (m *Memory) Publish(ctx context.Context, topic string, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if topic == "" {
		return Receipt{}, ErrTopicRequired
	}
	if m.closed.Load() {
		return Receipt{}, ErrClosed
	}

	m.mu.Lock()
	m.msgs = append(m.msgs, Published{Topic: topic, Message: msg})
	m.mu.Unlock()

	return Receipt{
		ID:        strconv.FormatUint(m.seq.Inc(), 10),
		Topic:     topic,
		Timestamp: time.Now(),
	}, nil
}

// Messages returns a snapshot of everything published so far.
func (m *Memory) Messages() []Published {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Published, len(m.msgs))
	copy(out, m.msgs)
	return out
}

// Close makes subsequent publishes fail with ErrClosed.
func (m *Memory) Close() error {
	m.closed.Store(true)
	return nil
}
