package usecase

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/otp"
	"github.com/shandysiswandi/otpkeeper/internal/vault/entity"
)

type EnrollServiceInput struct {
	Name   string `validate:"required,max=128"`
	Issuer string `validate:"max=128"`
	// Secret is base32 text as shown by the provider.
	Secret    string `validate:"required,max=512"`
	Algorithm string `validate:"otpalg"`
	Digits    int
	Period    int

	IdempotencyKey string `validate:"max=128"`
}

type EnrollServiceOutput struct {
	ID string
}

// EnrollService enrolls a manually entered service. Zero digits, period and
// algorithm take the defaults.
func (s *Usecase) EnrollService(ctx context.Context, in EnrollServiceInput) (*EnrollServiceOutput, error) {
	ctx, span := s.startSpan(ctx, "EnrollService")
	defer span.End()

	accountID, err := s.accountID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	secret, err := otp.DecodeBase32(in.Secret)
	if err != nil {
		return nil, s.mapError(ctx, accountID, err)
	}

	var alg otp.Algorithm
	if in.Algorithm != "" {
		if alg, err = otp.ParseAlgorithm(in.Algorithm); err != nil {
			return nil, s.mapError(ctx, accountID, err)
		}
	}

	params := otp.Params{Algorithm: alg, Digits: in.Digits, Period: in.Period}.WithDefaults()
	id, err := s.enroll(ctx, accountID, entity.Service{
		Name:      in.Name,
		Issuer:    in.Issuer,
		Secret:    secret,
		Algorithm: params.Algorithm,
		Digits:    params.Digits,
		Period:    params.Period,
	}, in.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	return &EnrollServiceOutput{ID: id}, nil
}

type EnrollServiceURLInput struct {
	URL            string `validate:"required,max=2048"`
	IdempotencyKey string `validate:"max=128"`
}

// EnrollServiceURL enrolls the key encoded in an otpauth URL, typically read
// from a QR code. Counter-based keys are rejected.
func (s *Usecase) EnrollServiceURL(ctx context.Context, in EnrollServiceURLInput) (*EnrollServiceOutput, error) {
	ctx, span := s.startSpan(ctx, "EnrollServiceURL")
	defer span.End()

	accountID, err := s.accountID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	key, err := otp.ParseURL(in.URL)
	if err != nil {
		return nil, s.mapError(ctx, accountID, err)
	}
	if key.Type != otp.TypeTOTP {
		return nil, s.mapError(ctx, accountID, fmt.Errorf("%w: %s keys are not supported", entity.ErrInvalidDescriptor, key.Type))
	}

	id, err := s.enroll(ctx, accountID, entity.ServiceFromKey(key), in.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	return &EnrollServiceOutput{ID: id}, nil
}
