package usecase

import (
	"context"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/otp"
	"github.com/shandysiswandi/otpkeeper/internal/vault/entity"
)

type ProvisionServiceInput struct {
	// Name is the account label shown by authenticator apps.
	Name      string `validate:"required,max=128"`
	Issuer    string `validate:"required,max=128"`
	Algorithm string `validate:"otpalg"`
	Digits    int
	Period    int

	IdempotencyKey string `validate:"max=128"`
}

type ProvisionServiceOutput struct {
	ID         string
	OtpauthURL string
	Secret     string
	QRCode     []byte
}

// ProvisionService creates a new random key, enrolls it and returns it in the
// forms an authenticator app can import. This response is the only time the
// generated secret leaves the service.
func (s *Usecase) ProvisionService(ctx context.Context, in ProvisionServiceInput) (*ProvisionServiceOutput, error) {
	ctx, span := s.startSpan(ctx, "ProvisionService")
	defer span.End()

	accountID, err := s.accountID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var alg otp.Algorithm
	if in.Algorithm != "" {
		if alg, err = otp.ParseAlgorithm(in.Algorithm); err != nil {
			return nil, s.mapError(ctx, accountID, err)
		}
	}

	params := otp.Params{Algorithm: alg, Digits: in.Digits, Period: in.Period}.WithDefaults()
	prov, err := otp.Provision(in.Issuer, in.Name, params)
	if err != nil {
		return nil, s.mapError(ctx, accountID, err)
	}

	id, err := s.enroll(ctx, accountID, entity.ServiceFromKey(prov.Key), in.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	return &ProvisionServiceOutput{
		ID:         id,
		OtpauthURL: prov.URL,
		Secret:     otp.EncodeBase32(prov.Key.Secret),
		QRCode:     prov.QRCode,
	}, nil
}
