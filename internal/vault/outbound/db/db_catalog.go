package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/otp"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/secretbox"
	"github.com/shandysiswandi/otpkeeper/internal/vault/entity"
)

const (
	queryLockAccount = `SELECT id FROM accounts WHERE id = $1 FOR UPDATE`

	queryAccountExists = `SELECT id FROM accounts WHERE id = $1`

	queryServices = `
SELECT id::text, position, name, issuer, secret, algorithm, digits, period, created_at
FROM vault_services
WHERE account_id = $1
ORDER BY position`

	queryInsertService = `
INSERT INTO vault_services (id, account_id, position, name, issuer, secret, key_version, algorithm, digits, period, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	queryDeleteServices = `DELETE FROM vault_services WHERE account_id = $1 AND id = ANY($2)`

	queryBumpCatalogVersion = `UPDATE accounts SET catalog_version = catalog_version + 1 WHERE id = $1`
)

// MutateCatalog loads the catalog of accountID under a row lock on the
// account, runs fn and writes back whatever fn added or removed. Concurrent
// callers for the same account are serialized; an error from fn rolls back
// and is returned as is.
func (s *DB) MutateCatalog(ctx context.Context, accountID int64, fn func(*entity.Catalog) error) (err error) {
	ctx, span := s.startSpan(ctx, "MutateCatalog")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	var id int64
	if err := tx.QueryRow(ctx, queryLockAccount, accountID).Scan(&id); err != nil {
		return s.mapError(err)
	}

	services, err := s.loadServices(ctx, tx, accountID)
	if err != nil {
		return err
	}

	catalog := entity.NewCatalog(accountID, services)
	if err := fn(catalog); err != nil {
		return err
	}

	added, removed := catalog.Added(), catalog.Removed()
	if len(added) == 0 && len(removed) == 0 {
		return tx.Commit(ctx)
	}

	batch := &pgx.Batch{}
	for _, svc := range added {
		if err := s.queueInsert(batch, accountID, svc); err != nil {
			return err
		}
	}
	if len(removed) > 0 {
		ids := make([]pgtype.UUID, 0, len(removed))
		for _, rid := range removed {
			u, err := pgUUID(rid)
			if err != nil {
				return fmt.Errorf("vault: service id %q: %w", rid, err)
			}
			ids = append(ids, u)
		}
		batch.Queue(queryDeleteServices, accountID, ids)
	}
	batch.Queue(queryBumpCatalogVersion, accountID)

	if err := s.execBatch(ctx, tx, batch); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// GetCatalog returns a snapshot of the catalog of accountID.
func (s *DB) GetCatalog(ctx context.Context, accountID int64) (_ *entity.Catalog, err error) {
	ctx, span := s.startSpan(ctx, "GetCatalog")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	var id int64
	if err := tx.QueryRow(ctx, queryAccountExists, accountID).Scan(&id); err != nil {
		return nil, s.mapError(err)
	}

	services, err := s.loadServices(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, s.mapError(err)
	}

	return entity.NewCatalog(accountID, services), nil
}

func (s *DB) loadServices(ctx context.Context, q querier, accountID int64) ([]entity.Service, error) {
	rows, err := q.Query(ctx, queryServices, accountID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	scope := s.scope(accountID)
	services := make([]entity.Service, 0)
	for rows.Next() {
		var (
			svc    entity.Service
			sealed []byte
			alg    string
		)
		if err := rows.Scan(&svc.ID, &svc.Position, &svc.Name, &svc.Issuer, &sealed, &alg, &svc.Digits, &svc.Period, &svc.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}

		if svc.Secret, err = s.sealer.Open(sealed, scope); err != nil {
			return nil, fmt.Errorf("vault: open secret of service %s: %w", svc.ID, err)
		}
		svc.Algorithm = otp.Algorithm(alg)

		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return services, nil
}

func (s *DB) queueInsert(batch *pgx.Batch, accountID int64, svc entity.Service) error {
	id, err := pgUUID(svc.ID)
	if err != nil {
		return fmt.Errorf("vault: service id %q: %w", svc.ID, err)
	}

	sealed, err := s.sealer.Seal(svc.Secret, s.scope(accountID))
	if err != nil {
		return fmt.Errorf("vault: seal secret of service %s: %w", svc.ID, err)
	}
	version, err := secretbox.KeyVersion(sealed)
	if err != nil {
		return err
	}

	batch.Queue(queryInsertService,
		id,
		accountID,
		svc.Position,
		svc.Name,
		svc.Issuer,
		sealed,
		int16(version), //nolint:gosec // key versions are small by construction
		svc.Algorithm.String(),
		svc.Digits,
		svc.Period,
		svc.CreatedAt,
	)
	return nil
}

func (s *DB) execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	results := tx.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	return results.Close()
}
