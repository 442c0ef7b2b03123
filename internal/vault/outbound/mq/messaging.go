package mq

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/messaging"
	"github.com/shandysiswandi/otpkeeper/internal/shared/event"
	"github.com/shandysiswandi/otpkeeper/internal/vault/usecase"
	"go.opentelemetry.io/otel/codes"
)

const (
	keyOfCorrelationID string = "cID"

	publishAttempts = 3
)

type Messaging struct {
	client  messaging.Publisher
	ins     instrument.Instrumentation
	backoff func() retry.Backoff
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{
		client: client,
		ins:    ins,
		backoff: func() retry.Backoff {
			b := retry.NewFibonacci(100 * time.Millisecond)
			b = retry.WithCappedDuration(2*time.Second, b)
			return retry.WithMaxRetries(publishAttempts-1, b)
		},
	}
}

func (m *Messaging) PublishServiceEnrolled(ctx context.Context, ev usecase.ServiceEvent) error {
	return m.publish(ctx, "PublishServiceEnrolled", event.VaultServiceEnrolledDestination, ev)
}

func (m *Messaging) PublishServiceRemoved(ctx context.Context, ev usecase.ServiceEvent) error {
	return m.publish(ctx, "PublishServiceRemoved", event.VaultServiceRemovedDestination, ev)
}

func (m *Messaging) publish(ctx context.Context, name, topic string, ev usecase.ServiceEvent) error {
	ctx, span := m.ins.Tracer("vault.outbound.mq").Start(ctx, name)
	defer span.End()

	body, err := json.Marshal(event.VaultServiceMessage{
		AccountID:  ev.AccountID,
		ServiceID:  ev.ServiceID,
		Name:       ev.Name,
		Issuer:     ev.Issuer,
		OccurredAt: ev.OccurredAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	msg := messaging.Message{
		Key:     []byte(strconv.FormatInt(ev.AccountID, 10)),
		Body:    body,
		Headers: map[string]string{keyOfCorrelationID: instrument.GetCorrelationID(ctx)},
	}

	attempt := 0
	err = retry.Do(ctx, m.backoff(), func(ctx context.Context) error {
		attempt++
		if _, err := m.client.Publish(ctx, topic, msg); err != nil {
			if errors.Is(err, messaging.ErrClosed) || errors.Is(err, messaging.ErrTopicRequired) {
				return err
			}
			slog.WarnContext(ctx, "publish failed", "topic", topic, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
