package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpkeeper/internal/identity/entity"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/clock"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/hash"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/jwt"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type AccountRegisteredEvent struct {
	AccountID    int64
	Username     string
	RegisteredAt time.Time
}

type repoMessaging interface {
	PublishAccountRegistered(ctx context.Context, msg AccountRegisteredEvent) error
}

type repoDB interface {
	CreateAccount(ctx context.Context, acc entity.Account) error
	GetAccountByUsername(ctx context.Context, username string) (*entity.Account, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	bcrypt        hash.Hash
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Bcrypt        hash.Hash
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}
