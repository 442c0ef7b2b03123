package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpkeeper/internal/identity"
	"github.com/shandysiswandi/otpkeeper/internal/vault"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.identity.enabled") {
		if err := identity.New(identity.Dependency{
			DBConn:     a.dbConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Instrument: a.ins,
			UID:        a.uid,
			Bcrypt:     a.bcrypt,
			Clock:      a.clock,
			Validator:  a.validator,
			JWT:        a.jwt,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.vault.enabled") {
		if err := vault.New(vault.Dependency{
			DBConn:      a.dbConn,
			Goroutine:   a.goroutine,
			Router:      a.router,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Sealer:      a.sealer,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Clock:       a.clock,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module vault", "error", err)
			os.Exit(1)
		}
	}
}
