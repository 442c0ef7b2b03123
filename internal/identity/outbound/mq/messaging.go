package mq

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shandysiswandi/otpkeeper/internal/identity/usecase"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/messaging"
	"github.com/shandysiswandi/otpkeeper/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishAccountRegistered(ctx context.Context, msg usecase.AccountRegisteredEvent) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "PublishAccountRegistered")
	defer span.End()

	body, err := json.Marshal(event.IdentityAccountRegisteredMessage{
		AccountID:    msg.AccountID,
		Username:     msg.Username,
		RegisteredAt: msg.RegisteredAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.IdentityAccountRegisteredDestination, messaging.Message{
		Key:     []byte(strconv.FormatInt(msg.AccountID, 10)),
		Body:    body,
		Headers: map[string]string{keyOfCorrelationID: cID},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
