package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"go.uber.org/atomic"
	"google.golang.org/api/option"
)

// ErrPubSubProjectIDRequired is returned when the Google Cloud project is missing.
var ErrPubSubProjectIDRequired = errors.New("messaging: pubsub project id is required")

// PubSubConfig configures the Google Pub/Sub publisher.
type PubSubConfig struct {
	ProjectID     string
	ClientOptions []option.ClientOption
}

// PubSub publishes to Google Pub/Sub topics. Headers become attributes.
type PubSub struct {
	client *pubsub.Client
	closed atomic.Bool

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
}

// NewPubSub creates a Pub/Sub client for cfg.ProjectID.
func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	if cfg.ProjectID == "" {
		return nil, ErrPubSubProjectIDRequired
	}

	c, err := pubsub.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("messaging: pubsub client: %w", err)
	}

	return &PubSub{client: c, publishers: map[string]*pubsub.Publisher{}}, nil
}

// Publish sends msg and waits for the server-assigned message ID.
func (p *PubSub) Publish(ctx context.Context, topic string, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if topic == "" {
		return Receipt{}, ErrTopicRequired
	}
	if p.closed.Load() {
		return Receipt{}, ErrClosed
	}

	res := p.publisher(topic).Publish(ctx, &pubsub.Message{
		Data:       msg.Body,
		Attributes: msg.Headers,
	})

	id, err := res.Get(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("messaging: pubsub publish: %w", err)
	}

	return Receipt{ID: id, Topic: topic, Timestamp: time.Now()}, nil
}

func (p *PubSub) publisher(topic string) *pubsub.Publisher {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pub, ok := p.publishers[topic]; ok {
		return pub
	}

	pub := p.client.Publisher(topic)
	p.publishers[topic] = pub
	return pub
}

// Close flushes publishers and closes the client.
func (p *PubSub) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	p.mu.Lock()
	for _, pub := range p.publishers {
		pub.Stop()
	}
	p.publishers = nil
	p.mu.Unlock()

	return p.client.Close()
}
