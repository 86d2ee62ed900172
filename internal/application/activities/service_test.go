package activities

import (
	"context"
	"testing"
	"time"

	"pcns-backend/internal/infrastructure/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 8)
	assert.NotEqual(t, id, NewID())
}

func TestCreateAndSoftDelete(t *testing.T) {
	chain, _ := dbtest.Chain(t)
	ctx := context.Background()

	id, err := Create(ctx, chain, InitiativeHousing)
	require.NoError(t, err)

	ok, err := Exists(ctx, chain, id)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, SoftDelete(ctx, chain, id, time.Now().UTC()))
	ok, err = Exists(ctx, chain, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SoftDelete(ctx, chain, id, time.Now().UTC()))
}
