// Package messaging publishes domain events to a message broker.
//
// Business code depends on the Publisher interface only; the concrete broker
// (NATS, Kafka, NSQ or Google Pub/Sub) is chosen by configuration through
// NewFromDriver. An in-process Memory publisher is available for local runs
// and tests.
package messaging
