package usecase

import "context"

type AccountSummaryOutput struct {
	ID           int64
	DisplayName  string
	ServiceCount int
}

func (s *Usecase) AccountSummary(ctx context.Context) (*AccountSummaryOutput, error) {
	ctx, span := s.startSpan(ctx, "AccountSummary")
	defer span.End()

	accountID, err := s.accountID(ctx)
	if err != nil {
		return nil, err
	}

	acc, err := s.repoDB.GetAccount(ctx, accountID)
	if err != nil {
		return nil, s.mapError(ctx, accountID, err)
	}

	return &AccountSummaryOutput{
		ID:           acc.ID,
		DisplayName:  acc.DisplayName,
		ServiceCount: acc.ServiceCount,
	}, nil
}
