package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpkeeper/internal/identity/entity"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/hash"
)

type RegisterInput struct {
	Username string `validate:"required,username"`
	Password string `validate:"required,password"`
}

type RegisterOutput struct {
	ID int64
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Username = strings.TrimSpace(strings.ToLower(in.Username))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	hashedPassword, err := s.bcrypt.Hash(in.Password)
	if errors.Is(err, hash.ErrTooLong) {
		return nil, goerror.NewInvalidInput(nil, "password", "password is too long")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	acc := entity.Account{
		ID:        s.uid.Generate(),
		Username:  in.Username,
		Password:  string(hashedPassword),
		CreatedAt: s.clock.Now(),
	}

	err = s.repoDB.CreateAccount(ctx, acc)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "username already registered", "username", acc.Username)
		return nil, goerror.NewBusiness("Username already registered", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create account", "username", acc.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "account registered", "account_id", acc.ID)

	ev := AccountRegisteredEvent{AccountID: acc.ID, Username: acc.Username, RegisteredAt: acc.CreatedAt}
	s.goroutine.Go(ctx, "identity.publish_account_registered", func(ctx context.Context) error {
		if err := s.repoMessaging.PublishAccountRegistered(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to publish account registered", "account_id", ev.AccountID, "error", err)
			return err
		}
		return nil
	})

	return &RegisterOutput{ID: acc.ID}, nil
}
