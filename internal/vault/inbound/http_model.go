package inbound

import (
	"net/http"
	"strings"
)

const headerIdempotencyKey = "Idempotency-Key"

// secretGrouping drops the spaces and dashes apps print between groups of a
// manually entered secret.
var secretGrouping = strings.NewReplacer(" ", "", "-", "")

type EnrollServiceRequest struct {
	Name      string `json:"name"`
	Issuer    string `json:"issuer"`
	Secret    string `json:"secret"`
	Algorithm string `json:"algorithm"`
	Digits    int    `json:"digits"`
	Period    int    `json:"period"`
}

func (r EnrollServiceRequest) secret() string {
	return secretGrouping.Replace(r.Secret)
}

type EnrollServiceURLRequest struct {
	URL string `json:"url"`
}

type EnrollServiceResponse struct {
	ID string `json:"id"`
}

func (EnrollServiceResponse) StatusCode() int { return http.StatusCreated }

func (EnrollServiceResponse) Message() string { return "Service enrolled" }

type ProvisionServiceRequest struct {
	Name      string `json:"name"`
	Issuer    string `json:"issuer"`
	Algorithm string `json:"algorithm"`
	Digits    int    `json:"digits"`
	Period    int    `json:"period"`
}

// ProvisionServiceResponse is the only response that ever carries a secret.
type ProvisionServiceResponse struct {
	ID         string `json:"id"`
	OtpauthURL string `json:"otpauth_url"`
	Secret     string `json:"secret"`
	QRCodePNG  string `json:"qr_code_png"`
}

func (ProvisionServiceResponse) StatusCode() int { return http.StatusCreated }

func (ProvisionServiceResponse) Message() string { return "Service provisioned" }

type ServiceResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Issuer        string `json:"issuer"`
	Algorithm     string `json:"algorithm"`
	Digits        int    `json:"digits"`
	Period        int    `json:"period"`
	Code          string `json:"code"`
	TimeRemaining int    `json:"time_remaining"`
}

type ListServicesResponse struct {
	Items []ServiceResponse `json:"items"`
}

func (r ListServicesResponse) Meta() map[string]any {
	return map[string]any{"total": len(r.Items)}
}

type VerifyServiceRequest struct {
	Code string `json:"code"`
}

type VerifyServiceResponse struct {
	Valid bool `json:"valid"`
}

func (r VerifyServiceResponse) Message() string {
	if r.Valid {
		return "Code is valid"
	}
	return "Code is not valid"
}

type AccountSummaryResponse struct {
	ID           int64  `json:"id,string"`
	DisplayName  string `json:"display_name"`
	ServiceCount int    `json:"service_count"`
}
