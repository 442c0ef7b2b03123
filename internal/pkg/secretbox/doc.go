// Package secretbox seals small secrets at rest with AES-256-GCM.
//
// Ciphertexts are bound to a Scope through additional authenticated data, so
// a value sealed for one account cannot be opened under another. Every
// ciphertext records the version of the key that sealed it, which lets the
// keyring rotate without re-encrypting stored data.
package secretbox
