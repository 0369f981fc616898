package port

import (
	"context"
	"errors"

	"traffic-analyzer/internal/core/domain"
)

// ErrStateNotFound is returned by Load when nothing has been saved yet.
var ErrStateNotFound = errors.New("state not found")

// StateRepository persists the application state as a single blob. It is an
// outbound port; implementations write the whole state on every Save and
// must be safe for concurrent use.
type StateRepository interface {
	// Load returns the last saved state or ErrStateNotFound.
	Load(ctx context.Context) (domain.AppState, error)
	// Save replaces the stored state.
	Save(ctx context.Context, state domain.AppState) error
}
