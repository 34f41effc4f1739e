package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pfrederiksen/wca-notifier/internal/config"
	"github.com/pfrederiksen/wca-notifier/internal/filter"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSub(email string) *subscription.Subscription {
	return subscription.New(email, "EUR", filter.EventFilter{
		Events:     []string{"333", "444"},
		Mode:       filter.ModeAny,
		Continent:  "_Europe",
		AcceptFull: true,
	})
}

// exerciseStore runs the same contract against every implementation.
func exerciseStore(t *testing.T, store subscription.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("add and get", func(t *testing.T) {
		sub := sampleSub("Alice@Example.com")
		require.NoError(t, store.Add(ctx, sub))

		got, err := store.Get(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
		assert.Equal(t, "alice@example.com", got.Email)
		assert.Equal(t, "EUR", got.PreferredCurrency)
		assert.Equal(t, []string{"333", "444"}, got.Filter.Events)
		assert.Equal(t, filter.ModeAny, got.Filter.Mode)
		assert.True(t, got.Filter.AcceptFull)
		assert.Empty(t, got.Notified.Sorted())

		byID, err := store.GetByID(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", byID.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := store.Add(ctx, sampleSub("alice@example.com"))
		assert.ErrorIs(t, err, subscription.ErrExists)
	})

	t.Run("append notified is idempotent", func(t *testing.T) {
		require.NoError(t, store.AppendNotified(ctx, "alice@example.com", []string{"B2025", "A2025"}))
		require.NoError(t, store.AppendNotified(ctx, "alice@example.com", []string{"A2025"}))

		got, err := store.Get(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"A2025", "B2025"}, got.Notified.Sorted())
	})

	t.Run("append to unknown", func(t *testing.T) {
		err := store.AppendNotified(ctx, "nobody@example.com", []string{"X"})
		assert.ErrorIs(t, err, subscription.ErrNotFound)
	})

	t.Run("list", func(t *testing.T) {
		require.NoError(t, store.Add(ctx, sampleSub("bob@example.com")))
		subs, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, subs, 2)
		assert.Equal(t, "alice@example.com", subs[0].Email)
		assert.Equal(t, "bob@example.com", subs[1].Email)
		assert.True(t, subs[0].Notified.Has("A2025"))
	})

	t.Run("remove clears notified", func(t *testing.T) {
		n, err := store.Remove(ctx, "alice@example.com", "nobody@example.com")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = store.Get(ctx, "alice@example.com")
		assert.ErrorIs(t, err, subscription.ErrNotFound)

		require.NoError(t, store.Add(ctx, sampleSub("alice@example.com")))
		got, err := store.Get(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Empty(t, got.Notified.Sorted())
	})
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestFileStoreEncrypted(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(config.Storage{Driver: config.DriverFile, DataDir: dir, EncryptionKey: "secret"})
	require.NoError(t, err)
	exerciseStore(t, store)

	// the same key reads it back
	again, err := Open(config.Storage{Driver: config.DriverFile, DataDir: dir, EncryptionKey: "secret"})
	require.NoError(t, err)
	subs, err := again.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	// without the key the file is unreadable
	plain, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	_, err = plain.List(context.Background())
	assert.Error(t, err)
}

func TestFileStoreMissingFile(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested"), nil)
	require.NoError(t, err)

	subs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()
	exerciseStore(t, store)
}

func TestSQLiteStorePersists(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "wca.db")
	store, err := Open(config.Storage{Driver: config.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, store.Add(context.Background(), sampleSub("carol@example.com")))
	require.NoError(t, store.AppendNotified(context.Background(), "carol@example.com", []string{"C2025"}))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(dsn)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), "carol@example.com")
	require.NoError(t, err)
	assert.True(t, got.Notified.Has("C2025"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.Storage{Driver: "postgres"})
	assert.Error(t, err)
}
