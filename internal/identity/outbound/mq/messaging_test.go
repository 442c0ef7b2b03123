package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shandysiswandi/otpkeeper/internal/identity/usecase"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/messaging"
	"github.com/shandysiswandi/otpkeeper/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessaging_PublishAccountRegistered(t *testing.T) {
	mem := messaging.NewMemory()
	m := NewMessaging(mem, instrument.NewNoop())

	ctx := instrument.SetCorrelationID(context.Background(), "cid-9")
	require.NoError(t, m.PublishAccountRegistered(ctx, usecase.AccountRegisteredEvent{
		AccountID:    5,
		Username:     "alice",
		RegisteredAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	msgs := mem.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, event.IdentityAccountRegisteredDestination, msgs[0].Topic)
	assert.Equal(t, "cid-9", msgs[0].Message.Headers[keyOfCorrelationID])

	var body event.IdentityAccountRegisteredMessage
	require.NoError(t, json.Unmarshal(msgs[0].Message.Body, &body))
	assert.Equal(t, event.IdentityAccountRegisteredMessage{
		AccountID:    5,
		Username:     "alice",
		RegisteredAt: "2026-01-01T00:00:00Z",
	}, body)

	require.NoError(t, mem.Close())
	err := m.PublishAccountRegistered(ctx, usecase.AccountRegisteredEvent{AccountID: 5})
	assert.ErrorIs(t, err, messaging.ErrClosed)
}
