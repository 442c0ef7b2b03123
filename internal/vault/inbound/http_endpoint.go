package inbound

import (
	"encoding/base64"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/router"
	"github.com/shandysiswandi/otpkeeper/internal/vault/usecase"
)

// HTTPEndpoint exposes the vault over HTTP. Every route requires a bearer
// token.
type HTTPEndpoint struct {
	uc uc
}

// EnrollService enrolls a manually entered key.
func (h *HTTPEndpoint) EnrollService(r *router.Request) (any, error) {
	var req EnrollServiceRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.EnrollService(r.Context(), usecase.EnrollServiceInput{
		Name:           req.Name,
		Issuer:         req.Issuer,
		Secret:         req.secret(),
		Algorithm:      req.Algorithm,
		Digits:         req.Digits,
		Period:         req.Period,
		IdempotencyKey: r.GetHeader(headerIdempotencyKey),
	})
	if err != nil {
		return nil, err
	}

	return EnrollServiceResponse{ID: resp.ID}, nil
}

// EnrollServiceURL enrolls the key of a scanned otpauth URL.
func (h *HTTPEndpoint) EnrollServiceURL(r *router.Request) (any, error) {
	var req EnrollServiceURLRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.EnrollServiceURL(r.Context(), usecase.EnrollServiceURLInput{
		URL:            req.URL,
		IdempotencyKey: r.GetHeader(headerIdempotencyKey),
	})
	if err != nil {
		return nil, err
	}

	return EnrollServiceResponse{ID: resp.ID}, nil
}

func (h *HTTPEndpoint) ProvisionService(r *router.Request) (any, error) {
	var req ProvisionServiceRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ProvisionService(r.Context(), usecase.ProvisionServiceInput{
		Name:           req.Name,
		Issuer:         req.Issuer,
		Algorithm:      req.Algorithm,
		Digits:         req.Digits,
		Period:         req.Period,
		IdempotencyKey: r.GetHeader(headerIdempotencyKey),
	})
	if err != nil {
		return nil, err
	}

	return ProvisionServiceResponse{
		ID:         resp.ID,
		OtpauthURL: resp.OtpauthURL,
		Secret:     resp.Secret,
		QRCodePNG:  base64.StdEncoding.EncodeToString(resp.QRCode),
	}, nil
}

// ListServices returns every service with its current code.
func (h *HTTPEndpoint) ListServices(r *router.Request) (any, error) {
	resp, err := h.uc.ListServices(r.Context())
	if err != nil {
		return nil, err
	}

	return ListServicesResponse{
		Items: lo.Map(resp.Items, func(item usecase.ServiceCode, _ int) ServiceResponse {
			return ServiceResponse{
				ID:            item.ID,
				Name:          item.Name,
				Issuer:        item.Issuer,
				Algorithm:     item.Algorithm.String(),
				Digits:        item.Digits,
				Period:        item.Period,
				Code:          item.Code,
				TimeRemaining: item.TimeRemaining,
			}
		}),
	}, nil
}

func (h *HTTPEndpoint) RemoveService(r *router.Request) (any, error) {
	if err := h.uc.RemoveService(r.Context(), usecase.RemoveServiceInput{ID: r.GetParam("id")}); err != nil {
		return nil, err
	}

	return nil, nil
}

func (h *HTTPEndpoint) VerifyService(r *router.Request) (any, error) {
	var req VerifyServiceRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyService(r.Context(), usecase.VerifyServiceInput{
		ID:   r.GetParam("id"),
		Code: req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyServiceResponse{Valid: resp.Valid}, nil
}

func (h *HTTPEndpoint) AccountSummary(r *router.Request) (any, error) {
	resp, err := h.uc.AccountSummary(r.Context())
	if err != nil {
		return nil, err
	}

	return AccountSummaryResponse{
		ID:           resp.ID,
		DisplayName:  resp.DisplayName,
		ServiceCount: resp.ServiceCount,
	}, nil
}
