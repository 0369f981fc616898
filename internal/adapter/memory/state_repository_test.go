package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traffic-analyzer/internal/core/domain"
	"traffic-analyzer/internal/core/port"
)

func TestStateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, port.ErrStateNotFound)

	state := domain.EmptyState()
	state.Campaigns = append(state.Campaigns, domain.Campaign{ID: "1", Name: "A"})
	state.MetaPixelID = "123"
	require.NoError(t, repo.Save(ctx, state))

	state.Campaigns[0].Name = "mutated after save"

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Campaigns[0].Name)
	assert.Equal(t, "123", got.MetaPixelID)
	assert.NotNil(t, got.Products)
}
