package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"traffic-analyzer/internal/core/domain"
	"traffic-analyzer/internal/core/port"
)

// stateRowID is the key of the only row in app_state.
const stateRowID = 1

// StateRepository implements port.StateRepository on a single JSONB row.
type StateRepository struct {
	pool *pgxpool.Pool
}

// NewStateRepository returns a new repository instance.
func NewStateRepository(pool *pgxpool.Pool) *StateRepository {
	return &StateRepository{pool: pool}
}

// Load reads the state blob.
func (r *StateRepository) Load(ctx context.Context) (domain.AppState, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM app_state WHERE id = $1`, stateRowID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AppState{}, port.ErrStateNotFound
	}
	if err != nil {
		return domain.AppState{}, err
	}
	state := domain.EmptyState()
	if err = json.Unmarshal(raw, &state); err != nil {
		return domain.AppState{}, fmt.Errorf("decode app state: %w", err)
	}
	return state.Clone(), nil
}

// historyDepth is how many replaced versions app_state_history keeps.
const historyDepth = 50

// Save replaces the state blob and appends the previous version to
// app_state_history in the same transaction.
func (r *StateRepository) Save(ctx context.Context, state domain.AppState) (err error) {
	raw, err := json.Marshal(state.Clone())
	if err != nil {
		return fmt.Errorf("encode app state: %w", err)
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()
	_, err = tx.Exec(ctx, `INSERT INTO app_state_history (data, replaced_at)
SELECT data, $2 FROM app_state WHERE id = $1`, stateRowID, time.Now().UTC())
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM app_state_history WHERE id NOT IN
(SELECT id FROM app_state_history ORDER BY id DESC LIMIT $1)`, historyDepth)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `INSERT INTO app_state (id, data, updated_at) VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`, stateRowID, raw)
	return err
}
