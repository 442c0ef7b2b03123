// Package validator validates inbound request structs.
//
// Handlers depend on the Validator interface; the go-playground v10
// implementation registers the custom tags used by the vault and identity
// requests (password, username, otpalg).
package validator
