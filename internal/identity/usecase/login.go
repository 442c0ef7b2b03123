package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/goerror"
)

type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	AccessToken string
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	username := strings.TrimSpace(strings.ToLower(in.Username))
	acc, err := s.repoDB.GetAccountByUsername(ctx, username)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found", "username", username)
		return nil, goerror.NewBusiness("invalid username or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by username", "username", username, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.bcrypt.Verify(acc.Password, in.Password) {
		slog.WarnContext(ctx, "password account not match", "account_id", acc.ID)
		return nil, goerror.NewBusiness("invalid username or password", goerror.CodeUnauthorized)
	}

	token, err := s.jwt.Generate(acc.ID, acc.Username)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{AccessToken: token}, nil
}
