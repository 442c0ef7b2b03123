package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"
)

// ErrNATSURLRequired is returned when the NATS server URL is missing.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

// NATSConfig configures the NATS publisher.
type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS publishes to NATS subjects.
type NATS struct {
	conn   *nats.Conn
	closed atomic.Bool
}

// NewNATS connects to the NATS server at cfg.URL.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Publish sends msg to the subject topic and flushes the connection.
func (n *NATS) Publish(ctx context.Context, topic string, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if topic == "" {
		return Receipt{}, ErrTopicRequired
	}
	if n.closed.Load() {
		return Receipt{}, ErrClosed
	}

	nmsg := nats.NewMsg(topic)
	nmsg.Data = msg.Body
	for k, v := range msg.Headers {
		nmsg.Header.Set(k, v)
	}

	if err := n.conn.PublishMsg(nmsg); err != nil {
		return Receipt{}, fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return Receipt{}, fmt.Errorf("messaging: nats flush: %w", err)
	}

	return Receipt{Topic: topic, Timestamp: time.Now()}, nil
}

// Close drains pending messages and closes the connection.
func (n *NATS) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}
	return n.conn.Drain()
}
