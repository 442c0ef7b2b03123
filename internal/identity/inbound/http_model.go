package inbound

import "net/http"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID int64 `json:"id,string"`
}

func (RegisterResponse) StatusCode() int { return http.StatusCreated }

func (RegisterResponse) Message() string {
	return "Registration successful. You can now log in."
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
