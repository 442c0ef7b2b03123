package inbound

import (
	"context"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/router"
	"github.com/shandysiswandi/otpkeeper/internal/vault/usecase"
)

type uc interface {
	EnrollService(ctx context.Context, in usecase.EnrollServiceInput) (*usecase.EnrollServiceOutput, error)
	EnrollServiceURL(ctx context.Context, in usecase.EnrollServiceURLInput) (*usecase.EnrollServiceOutput, error)
	ProvisionService(ctx context.Context, in usecase.ProvisionServiceInput) (*usecase.ProvisionServiceOutput, error)

	ListServices(ctx context.Context) (*usecase.ListServicesOutput, error)
	RemoveService(ctx context.Context, in usecase.RemoveServiceInput) error
	VerifyService(ctx context.Context, in usecase.VerifyServiceInput) (*usecase.VerifyServiceOutput, error)

	AccountSummary(ctx context.Context) (*usecase.AccountSummaryOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Enrollment
	r.POST("/api/v1/vault/services", end.EnrollService)
	r.POST("/api/v1/vault/services-scan", end.EnrollServiceURL)
	r.POST("/api/v1/vault/services-provision", end.ProvisionService)

	// Catalog
	r.GET("/api/v1/vault/services", end.ListServices)
	r.DELETE("/api/v1/vault/services/:id", end.RemoveService)
	r.POST("/api/v1/vault/services/:id/verify", end.VerifyService)

	r.GET("/api/v1/vault/account", end.AccountSummary)
}
