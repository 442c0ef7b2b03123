package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/otpkeeper/internal/identity/usecase"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.Public(http.MethodPost, "/api/v1/identity/register", end.Register)
	r.Public(http.MethodPost, "/api/v1/identity/login", end.Login)
}
