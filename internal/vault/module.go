package vault

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/clock"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/config"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/messaging"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/router"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/secretbox"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/validator"
	"github.com/shandysiswandi/otpkeeper/internal/vault/inbound"
	"github.com/shandysiswandi/otpkeeper/internal/vault/outbound/db"
	"github.com/shandysiswandi/otpkeeper/internal/vault/outbound/mq"
	"github.com/shandysiswandi/otpkeeper/internal/vault/usecase"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Publisher        `validate:"required"`
	Sealer      secretbox.Sealer           `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Sealer, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMsg,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
