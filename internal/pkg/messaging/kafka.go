package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/atomic"
)

// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers      []string
	BatchTimeout time.Duration
	// RequiredAcks defaults to kafka.RequireAll.
	RequiredAcks kafka.RequiredAcks
}

// Kafka publishes to Kafka topics with one writer per topic.
type Kafka struct {
	cfg    KafkaConfig
	closed atomic.Bool

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewKafka builds a Kafka publisher. Connections are opened lazily.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = kafka.RequireAll
	}

	return &Kafka{cfg: cfg, writers: map[string]*kafka.Writer{}}, nil
}

// Publish writes msg synchronously to topic.
func (k *Kafka) Publish(ctx context.Context, topic string, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if topic == "" {
		return Receipt{}, ErrTopicRequired
	}
	if k.closed.Load() {
		return Receipt{}, ErrClosed
	}

	km := kafka.Message{Key: msg.Key, Value: msg.Body, Time: time.Now()}
	for key, v := range msg.Headers {
		km.Headers = append(km.Headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	if err := k.writer(topic).WriteMessages(ctx, km); err != nil {
		return Receipt{}, fmt.Errorf("messaging: kafka publish: %w", err)
	}

	return Receipt{Topic: topic, Timestamp: km.Time}, nil
}

func (k *Kafka) writer(topic string) *kafka.Writer {
	k.mu.Lock()
	defer k.mu.Unlock()

	if w, ok := k.writers[topic]; ok {
		return w
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(k.cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: k.cfg.BatchTimeout,
		RequiredAcks: k.cfg.RequiredAcks,
	}
	k.writers[topic] = w
	return w
}

// Close flushes and closes every writer.
func (k *Kafka) Close() error {
	if !k.closed.CompareAndSwap(false, true) {
		return nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	var err error
	for _, w := range k.writers {
		err = errors.Join(err, w.Close())
	}
	k.writers = nil
	return err
}
