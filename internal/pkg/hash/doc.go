// Package hash hashes and verifies account passwords.
package hash
