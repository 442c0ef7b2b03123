package inbound

import (
	"github.com/shandysiswandi/otpkeeper/internal/identity/usecase"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/router"
)

// HTTPEndpoint exposes registration and login. Both routes are public.
type HTTPEndpoint struct {
	uc uc
}

// Register creates an account.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{ID: resp.ID}, nil
}

// Login exchanges credentials for a bearer access token.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{AccessToken: resp.AccessToken, TokenType: "Bearer"}, nil
}
