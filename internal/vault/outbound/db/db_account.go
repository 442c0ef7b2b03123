package db

import (
	"context"

	"github.com/shandysiswandi/otpkeeper/internal/vault/entity"
)

const queryAccountSummary = `
SELECT a.id, a.username, (SELECT COUNT(*) FROM vault_services v WHERE v.account_id = a.id)
FROM accounts a
WHERE a.id = $1`

func (s *DB) GetAccount(ctx context.Context, accountID int64) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccount")
	defer func() { s.endSpan(span, err) }()

	var acc entity.Account
	if err := s.conn.QueryRow(ctx, queryAccountSummary, accountID).Scan(&acc.ID, &acc.DisplayName, &acc.ServiceCount); err != nil {
		return nil, s.mapError(err)
	}

	return &acc, nil
}
