package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/otpkeeper/internal/identity/entity"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	queryCreateAccount = `INSERT INTO accounts (id, username, password, created_at) VALUES ($1, $2, $3, $4)`

	queryAccountByUsername = `SELECT id, username, password, created_at FROM accounts WHERE username = $1`
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

// - 23505 unique violation → goerror.ErrConflict
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) CreateAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateAccount, acc.ID, acc.Username, acc.Password, acc.CreatedAt)
	err = s.mapError(err)
	return err
}

func (s *DB) GetAccountByUsername(ctx context.Context, username string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByUsername")
	defer func() { s.endSpan(span, err) }()

	var acc entity.Account
	if err := s.conn.QueryRow(ctx, queryAccountByUsername, username).Scan(&acc.ID, &acc.Username, &acc.Password, &acc.CreatedAt); err != nil {
		return nil, s.mapError(err)
	}

	return &acc, nil
}
