package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/secretbox"
	"github.com/shandysiswandi/otpkeeper/internal/vault/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DB struct {
	conn   *pgxpool.Pool
	sealer secretbox.Sealer
	ins    instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, sealer secretbox.Sealer, ins instrument.Instrumentation) *DB {
	return &DB{
		conn:   conn,
		sealer: sealer,
		ins:    ins,
	}
}

// - 23505 unique violation → goerror.ErrConflict
// - 23503 foreign_key_violation → goerror.ErrNotFound, the account is gone
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return goerror.ErrConflict
		case "23503":
			return goerror.ErrNotFound
		}
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("vault.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil &&
		!errors.Is(err, goerror.ErrNotFound) &&
		!errors.Is(err, goerror.ErrConflict) &&
		!errors.Is(err, entity.ErrNotFound) &&
		!errors.Is(err, entity.ErrInvalidDescriptor) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) scope(accountID int64) secretbox.Scope {
	return secretbox.Scope{AccountID: accountID, Purpose: secretbox.PurposeServiceSecret}
}

func pgUUID(id string) (pgtype.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: u, Valid: true}, nil
}
