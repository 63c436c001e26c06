package library

import (
	"context"
	"testing"
	"time"

	"bookshelf/internal/kv"
	"bookshelf/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PostgresBackend(t *testing.T) {
	db := testutil.PostgresPool(t)
	ctx := context.Background()
	_, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS kv_entries (
		key TEXT PRIMARY KEY, value TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(), updated_at TIMESTAMPTZ NOT NULL DEFAULT now())`)
	require.NoError(t, err)

	backend := kv.NewNamespaced(kv.NewPostgresRepo(db, 2*time.Second), "it-"+uuid.NewString())
	runBackendScenario(t, NewStore(backend, WithClock(func() time.Time { return testNow })))
}

func TestStore_RedisBackend(t *testing.T) {
	redisStore := kv.NewRedisStore(testutil.RedisAddr())
	if err := redisStore.Ping(context.Background()); err != nil {
		_ = redisStore.Close()
		t.Skipf("Skipping test: cannot reach redis: %v", err)
	}
	t.Cleanup(func() { _ = redisStore.Close() })

	backend := kv.NewNamespaced(redisStore, "it-"+uuid.NewString())
	runBackendScenario(t, NewStore(backend, WithClock(func() time.Time { return testNow })))
}

func runBackendScenario(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()

	lib, err := store.Library(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, lib.Count())

	_, err = store.AddToShelf(ctx, testutil.TestRecord, Reading)
	require.NoError(t, err)
	_, err = store.UpdatePageProgress(ctx, testutil.TestRecord.ID, 207)
	require.NoError(t, err)

	entry, ok, err := store.Entry(ctx, testutil.TestRecord.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Read, entry.Shelf)
	require.NotNil(t, entry.FinishedDate)
	assert.True(t, testNow.Equal(*entry.FinishedDate))

	_, err = store.SaveReview(ctx, testutil.TestRecord.ID, ReviewInput{Rating: 4, Text: "solid"})
	require.NoError(t, err)
	_, err = store.SaveReadingGoal(ctx, 1)
	require.NoError(t, err)

	gp, err := store.GoalProgress(ctx)
	require.NoError(t, err)
	assert.True(t, gp.Achieved)
}
