package identity

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/otpkeeper/internal/identity/inbound"
	"github.com/shandysiswandi/otpkeeper/internal/identity/outbound/db"
	"github.com/shandysiswandi/otpkeeper/internal/identity/outbound/mq"
	"github.com/shandysiswandi/otpkeeper/internal/identity/usecase"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/clock"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/hash"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/jwt"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/messaging"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/router"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
