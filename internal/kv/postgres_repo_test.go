package kv

import (
	"context"
	"testing"
	"time"

	"bookshelf/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createKVEntries = `CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func TestPostgresRepo_GetSet(t *testing.T) {
	db := testutil.PostgresPool(t)
	_, err := db.Exec(context.Background(), createKVEntries)
	require.NoError(t, err)
	repo := NewPostgresRepo(db, 2*time.Second)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	_, found, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(ctx, key, `{"target":12}`))
	require.NoError(t, repo.Set(ctx, key, `{"target":20}`))

	v, found, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"target":20}`, v)
}
