package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkeeper/internal/vault/entity"
)

type RemoveServiceInput struct {
	ID string `validate:"required,max=64"`
}

// RemoveService permanently deletes a service and its secret.
func (s *Usecase) RemoveService(ctx context.Context, in RemoveServiceInput) error {
	ctx, span := s.startSpan(ctx, "RemoveService")
	defer span.End()

	accountID, err := s.accountID(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	var removed entity.Service
	err = s.repoDB.MutateCatalog(ctx, accountID, func(c *entity.Catalog) error {
		var err error
		removed, err = c.Remove(in.ID)
		return err
	})
	if err != nil {
		return s.mapError(ctx, accountID, err)
	}

	slog.InfoContext(ctx, "service removed", "account_id", accountID, "service_id", removed.ID)

	ev := ServiceEvent{
		AccountID:  accountID,
		ServiceID:  removed.ID,
		Name:       removed.Name,
		Issuer:     removed.Issuer,
		OccurredAt: s.clock.Now(),
	}
	s.goroutine.Go(ctx, "vault.publish_service_removed", func(ctx context.Context) error {
		return s.repoMessaging.PublishServiceRemoved(ctx, ev)
	})

	return nil
}
