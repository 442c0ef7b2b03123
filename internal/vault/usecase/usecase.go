package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/clock"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/config"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/jwt"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/otp"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/validator"
	"github.com/shandysiswandi/otpkeeper/internal/vault/entity"
	"go.opentelemetry.io/otel/trace"
)

const keyVerifyWindow = "modules.vault.verify_window"

// ServiceEvent describes a catalog change. It never carries secret material.
type ServiceEvent struct {
	AccountID  int64
	ServiceID  string
	Name       string
	Issuer     string
	OccurredAt time.Time
}

type repoMessaging interface {
	PublishServiceEnrolled(ctx context.Context, ev ServiceEvent) error
	PublishServiceRemoved(ctx context.Context, ev ServiceEvent) error
}

type repoDB interface {
	// MutateCatalog runs fn on the account's catalog while holding the
	// account lock and persists what fn changed when it returns nil.
	MutateCatalog(ctx context.Context, accountID int64, fn func(*entity.Catalog) error) error
	GetCatalog(ctx context.Context, accountID int64) (*entity.Catalog, error)
	GetAccount(ctx context.Context, accountID int64) (*entity.Account, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	UUID          uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("vault.usecase").Start(ctx, name)
}

func (s *Usecase) accountID(ctx context.Context) (int64, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.AccountID == 0 {
		return 0, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return clm.AccountID, nil
}

func (s *Usecase) verifyWindow() int {
	if s.cfg == nil || !s.cfg.IsSet(keyVerifyWindow) {
		return otp.DefaultWindow
	}
	return max(s.cfg.GetInt(keyVerifyWindow), 0)
}

// enroll adds svc to the account's catalog, at most once per idemKey when
// one is given, and announces it.
func (s *Usecase) enroll(ctx context.Context, accountID int64, svc entity.Service, idemKey string) (string, error) {
	var enrolled entity.Service
	run := func(ctx context.Context) error {
		return s.repoDB.MutateCatalog(ctx, accountID, func(c *entity.Catalog) error {
			id, err := c.Enroll(s.uuid, svc, s.clock.Now())
			if err != nil {
				return err
			}
			enrolled, err = c.Find(id)
			return err
		})
	}

	var err error
	if idemKey == "" {
		err = run(ctx)
	} else {
		err = s.idemp.Do(ctx, "vault:enroll:"+strconv.FormatInt(accountID, 10)+":"+idemKey, run)
	}
	if err != nil {
		return "", s.mapError(ctx, accountID, err)
	}

	slog.InfoContext(ctx, "service enrolled", "account_id", accountID, "service_id", enrolled.ID)

	ev := ServiceEvent{
		AccountID:  accountID,
		ServiceID:  enrolled.ID,
		Name:       enrolled.Name,
		Issuer:     enrolled.Issuer,
		OccurredAt: enrolled.CreatedAt,
	}
	s.goroutine.Go(ctx, "vault.publish_service_enrolled", func(ctx context.Context) error {
		return s.repoMessaging.PublishServiceEnrolled(ctx, ev)
	})

	return enrolled.ID, nil
}

// mapError turns domain and infrastructure errors into goerror values whose
// cause still matches the original sentinel.
func (s *Usecase) mapError(ctx context.Context, accountID int64, err error) error {
	switch {
	case errors.Is(err, idempotency.ErrInProgress):
		return goerror.NewBusinessCause(err, "Request with this idempotency key is in progress", goerror.CodeConflict)
	case errors.Is(err, idempotency.ErrReplayed):
		return goerror.NewBusinessCause(err, "Request with this idempotency key was already processed", goerror.CodeConflict)
	case errors.Is(err, entity.ErrNotFound):
		return goerror.NewBusinessCause(err, "Service not found", goerror.CodeNotFound)
	case errors.Is(err, goerror.ErrNotFound):
		slog.WarnContext(ctx, "vault account not found", "account_id", accountID)
		return goerror.NewBusinessCause(err, "Account not found", goerror.CodeNotFound)
	}

	if msg, ok := invalidKeyMessage(err); ok {
		return goerror.NewBusinessCause(err, msg, goerror.CodeInvalidInput)
	}

	slog.ErrorContext(ctx, "vault operation failed", "account_id", accountID, "error", err)
	return goerror.NewServer(err)
}

func invalidKeyMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, otp.ErrMissingSecret):
		return "Secret is missing or not valid base32", true
	case errors.Is(err, otp.ErrInvalidEncoding):
		return "Secret is not valid base32", true
	case errors.Is(err, otp.ErrUnsupportedAlgorithm):
		return "Algorithm must be SHA1, SHA256 or SHA512", true
	case errors.Is(err, otp.ErrInvalidDigits):
		return "Digits must be between 6 and 8", true
	case errors.Is(err, otp.ErrInvalidPeriod):
		return "Period must be a positive number of seconds", true
	case errors.Is(err, otp.ErrMissingCounter):
		return "Counter is required for HOTP keys", true
	case errors.Is(err, otp.ErrMalformedURL):
		return "Malformed otpauth URL", true
	case errors.Is(err, entity.ErrInvalidDescriptor):
		return "Invalid service descriptor", true
	default:
		return "", false
	}
}
