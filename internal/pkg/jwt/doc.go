// Package jwt issues and verifies the HS512 access tokens that authenticate
// API calls, and carries verified claims through a request context.
package jwt
