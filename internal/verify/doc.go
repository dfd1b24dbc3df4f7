// Package verify gates downloaded bytes behind cryptographic integrity checks.
//
// Only sha256 checksum verification is implemented. Signature verification
// against a trusted public key is a deferred feature: the detached signature
// is downloaded alongside the package but not checked.
package verify
