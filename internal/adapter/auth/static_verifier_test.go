package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"traffic-analyzer/internal/core/port"
)

func TestStaticVerifier(t *testing.T) {
	v := NewStaticVerifier("owner@example.com", "s3cret")
	ctx := context.Background()

	assert.NoError(t, v.Verify(ctx, "owner@example.com", "s3cret"))
	assert.NoError(t, v.Verify(ctx, " Owner@Example.com ", "s3cret"))
	assert.ErrorIs(t, v.Verify(ctx, "owner@example.com", "wrong"), port.ErrInvalidCredentials)
	assert.ErrorIs(t, v.Verify(ctx, "other@example.com", "s3cret"), port.ErrInvalidCredentials)

	empty := NewStaticVerifier("owner@example.com", "")
	assert.ErrorIs(t, empty.Verify(ctx, "owner@example.com", ""), port.ErrInvalidCredentials)
}
