package port

import (
	"context"
	"errors"
)

// ErrInvalidCredentials is returned when a login attempt does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier checks a login pair. Implementations return
// ErrInvalidCredentials on mismatch.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) error
}
