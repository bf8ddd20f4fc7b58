package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyGuard_ClaimReleaseExpira(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewIdempotencyGuard()
	g.now = func() time.Time { return now }

	ok, err := g.Claim(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Claim(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "una clave reservada no se puede reservar de nuevo")

	require.NoError(t, g.Release(ctx, "k1"))
	ok, _ = g.Claim(ctx, "k1", time.Minute)
	assert.True(t, ok, "tras Release la clave queda libre")

	now = now.Add(2 * time.Minute)
	ok, _ = g.Claim(ctx, "k1", time.Minute)
	assert.True(t, ok, "una reserva expirada se puede reclamar")
}
