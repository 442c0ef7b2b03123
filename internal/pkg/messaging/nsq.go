package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nsqio/go-nsq"
	"go.uber.org/atomic"
)

// ErrNSQAddrRequired is returned when the nsqd address is missing.
var ErrNSQAddrRequired = errors.New("messaging: nsq address is required")

// NSQConfig configures the NSQ publisher.
type NSQConfig struct {
	Addr string
	// Config defaults to nsq.NewConfig().
	Config *nsq.Config
}

// NSQ publishes to nsqd topics. NSQ has no message headers, so
// Message.Headers are not transmitted.
type NSQ struct {
	producer *nsq.Producer
	closed   atomic.Bool
}

// NewNSQ creates a producer for the nsqd at cfg.Addr.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.Addr == "" {
		return nil, ErrNSQAddrRequired
	}

	c := cfg.Config
	if c == nil {
		c = nsq.NewConfig()
	}

	p, err := nsq.NewProducer(cfg.Addr, c)
	if err != nil {
		return nil, fmt.Errorf("messaging: nsq producer: %w", err)
	}

	return &NSQ{producer: p}, nil
}

// Publish sends msg.Body to topic.
func (n *NSQ) Publish(ctx context.Context, topic string, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if topic == "" {
		return Receipt{}, ErrTopicRequired
	}
	if n.closed.Load() {
		return Receipt{}, ErrClosed
	}

	if err := n.producer.Publish(topic, msg.Body); err != nil {
		return Receipt{}, fmt.Errorf("messaging: nsq publish: %w", err)
	}

	return Receipt{Topic: topic, Timestamp: time.Now()}, nil
}

// Close stops the producer.
func (n *NSQ) Close() error {
	if n.closed.CompareAndSwap(false, true) {
		n.producer.Stop()
	}
	return nil
}
