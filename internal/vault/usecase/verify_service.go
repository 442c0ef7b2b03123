package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/otp"
)

type VerifyServiceInput struct {
	ID   string `validate:"required,max=64"`
	Code string
}

type VerifyServiceOutput struct {
	Valid bool
}

// VerifyService checks a submitted code against the service within the
// configured window. A malformed code is simply not valid.
func (s *Usecase) VerifyService(ctx context.Context, in VerifyServiceInput) (*VerifyServiceOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyService")
	defer span.End()

	accountID, err := s.accountID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	catalog, err := s.repoDB.GetCatalog(ctx, accountID)
	if err != nil {
		return nil, s.mapError(ctx, accountID, err)
	}

	svc, err := catalog.Find(in.ID)
	if err != nil {
		return nil, s.mapError(ctx, accountID, err)
	}

	valid := otp.Verify(svc.Secret, in.Code, s.clock.Now().Unix(), svc.Params(), s.verifyWindow())
	if !valid {
		slog.WarnContext(ctx, "service code rejected", "account_id", accountID, "service_id", svc.ID)
	}

	return &VerifyServiceOutput{Valid: valid}, nil
}
