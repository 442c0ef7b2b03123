package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrTopicRequired is returned when Publish is called without a topic.
	ErrTopicRequired = errors.New("messaging: topic is required")

	// ErrClosed is returned when publishing through a closed publisher.
	ErrClosed = errors.New("messaging: publisher is closed")
)

// Publisher sends messages to a named topic (subject, topic or queue,
// depending on the broker).
type Publisher interface {
	io.Closer

	Publish(ctx context.Context, topic string, msg Message) (Receipt, error)
}

// Message is a broker-agnostic outgoing message.
type Message struct {
	// Key is used for partitioning where the broker supports it (Kafka).
	Key []byte
	// Body is the payload.
	Body []byte
	// Headers are carried as native headers or attributes where the broker
	// supports them and dropped otherwise (NSQ).
	Headers map[string]string
}

// Receipt describes an accepted message.
type Receipt struct {
	// ID is the broker-assigned identifier, when the broker returns one.
	ID        string
	Topic     string
	Timestamp time.Time
}
