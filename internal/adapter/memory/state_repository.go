package memory

import (
	"context"
	"sync"

	"traffic-analyzer/internal/core/domain"
	"traffic-analyzer/internal/core/port"
)

// StateRepository keeps the state blob in process memory. It is used when no
// database is configured and in tests.
type StateRepository struct {
	mu    sync.RWMutex
	state *domain.AppState
}

// NewStateRepository returns an empty repository.
func NewStateRepository() *StateRepository {
	return &StateRepository{}
}

// Load returns a copy of the saved state or port.ErrStateNotFound.
func (r *StateRepository) Load(_ context.Context) (domain.AppState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == nil {
		return domain.AppState{}, port.ErrStateNotFound
	}
	return r.state.Clone(), nil
}

// Save stores a copy of state.
func (r *StateRepository) Save(_ context.Context, state domain.AppState) error {
	s := state.Clone()
	r.mu.Lock()
	r.state = &s
	r.mu.Unlock()
	return nil
}
