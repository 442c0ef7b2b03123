package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	DriverNATS         = "nats"
	DriverKafka        = "kafka"
	DriverNSQ          = "nsq"
	DriverGooglePubSub = "google-pubsub"
	DriverMemory       = "memory"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions groups the configuration of every supported driver. Only the
// selected one is read.
type FactoryOptions struct {
	NATS   NATSConfig
	Kafka  KafkaConfig
	NSQ    NSQConfig
	PubSub PubSubConfig
}

// NewFromDriver builds the Publisher selected by driver.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverNATS:
		return NewNATS(opts.NATS)
	case DriverKafka:
		return NewKafka(opts.Kafka)
	case DriverNSQ:
		return NewNSQ(opts.NSQ)
	case DriverGooglePubSub:
		return NewPubSub(ctx, opts.PubSub)
	case DriverMemory, "":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
