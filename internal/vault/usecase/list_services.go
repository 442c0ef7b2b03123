package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/otp"
)

type ServiceCode struct {
	ID            string
	Name          string
	Issuer        string
	Algorithm     otp.Algorithm
	Digits        int
	Period        int
	Code          string
	TimeRemaining int
}

type ListServicesOutput struct {
	Items []ServiceCode
}

// ListServices returns every enrolled service, in enrollment order, with the
// code valid at the current instant.
func (s *Usecase) ListServices(ctx context.Context) (*ListServicesOutput, error) {
	ctx, span := s.startSpan(ctx, "ListServices")
	defer span.End()

	accountID, err := s.accountID(ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := s.repoDB.GetCatalog(ctx, accountID)
	if err != nil {
		return nil, s.mapError(ctx, accountID, err)
	}

	now := s.clock.Now().Unix()
	items := make([]ServiceCode, 0, catalog.Len())
	for _, svc := range catalog.List() {
		code, err := otp.TOTP(svc.Secret, now, svc.Params())
		if err != nil {
			slog.ErrorContext(ctx, "stored service cannot produce a code", "service_id", svc.ID, "error", err)
			return nil, goerror.NewServer(err)
		}

		items = append(items, ServiceCode{
			ID:            svc.ID,
			Name:          svc.Name,
			Issuer:        svc.Issuer,
			Algorithm:     svc.Algorithm,
			Digits:        svc.Digits,
			Period:        svc.Period,
			Code:          code,
			TimeRemaining: otp.TimeRemaining(now, svc.Period),
		})
	}

	return &ListServicesOutput{Items: items}, nil
}
