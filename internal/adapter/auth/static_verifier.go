// Package auth holds credential verifiers for the login gate.
package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"traffic-analyzer/internal/core/port"
)

// StaticVerifier accepts exactly one configured email/password pair. It is
// meant for development and test deployments.
type StaticVerifier struct {
	email    string
	password string
}

// NewStaticVerifier returns a verifier for the given pair.
func NewStaticVerifier(email, password string) *StaticVerifier {
	return &StaticVerifier{email: strings.TrimSpace(email), password: password}
}

// Verify compares in constant time. An empty configured password never
// matches.
func (v *StaticVerifier) Verify(_ context.Context, email, password string) error {
	if v.password == "" {
		return port.ErrInvalidCredentials
	}
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(strings.TrimSpace(email))), []byte(strings.ToLower(v.email)))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.password))
	if emailOK&passOK != 1 {
		return port.ErrInvalidCredentials
	}
	return nil
}
