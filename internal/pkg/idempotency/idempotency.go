// Package idempotency makes retried requests safe by running an operation at
// most once per key within a retention window.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrInProgress is returned while another call with the same key runs.
	ErrInProgress = errors.New("idempotency: operation already in progress")
	// ErrReplayed is returned when the key already completed successfully.
	ErrReplayed = errors.New("idempotency: operation already completed")
)

const (
	stateRunning = "running"
	stateDone    = "done"

	defaultLock      = 30 * time.Second
	defaultRetention = 24 * time.Hour
)

// Idempotency runs fn once per key.
type Idempotency interface {
	Do(ctx context.Context, key string, fn func(context.Context) error) error
}

// Option tunes a Redis tracker.
type Option func(*Redis)

// WithLock bounds how long a running operation holds its key before another
// attempt may take over.
func WithLock(d time.Duration) Option {
	return func(r *Redis) {
		if d > 0 {
			r.lock = d
		}
	}
}

// WithRetention sets how long a completed key keeps rejecting replays.
func WithRetention(d time.Duration) Option {
	return func(r *Redis) {
		if d > 0 {
			r.retention = d
		}
	}
}

// Redis tracks keys in Redis.
//
// A key moves from absent to running to done. A failed operation deletes its
// key so the client may retry with the same key.
type Redis struct {
	client    redis.UniversalClient
	prefix    string
	lock      time.Duration
	retention time.Duration
}

// NewRedis returns a tracker storing keys under "idempotency:".
func NewRedis(client redis.UniversalClient, opts ...Option) *Redis {
	r := &Redis{
		client:    client,
		prefix:    "idempotency:",
		lock:      defaultLock,
		retention: defaultRetention,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs fn unless key is running or already done.
func (r *Redis) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	k := r.prefix + key

	ok, err := r.client.SetNX(ctx, k, stateRunning, r.lock).Result()
	if err != nil {
		return err
	}
	if !ok {
		state, err := r.client.Get(ctx, k).Result()
		switch {
		case errors.Is(err, redis.Nil):
			// expired between SETNX and GET
			return r.Do(ctx, key, fn)
		case err != nil:
			return err
		case state == stateDone:
			return ErrReplayed
		default:
			return ErrInProgress
		}
	}

	if err := fn(ctx); err != nil {
		if delErr := r.client.Del(context.WithoutCancel(ctx), k).Err(); delErr != nil {
			return errors.Join(err, delErr)
		}
		return err
	}

	return r.client.Set(context.WithoutCancel(ctx), k, stateDone, r.retention).Err()
}
