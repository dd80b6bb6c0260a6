package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuentas/internal/config"
	"cuentas/internal/storage"
	"cuentas/internal/store/memory"
)

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	mem, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, mem.Store)
	require.NoError(t, mem.Store.Close())

	sql, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "c.db")})
	require.NoError(t, err)
	assert.IsType(t, &storage.SQLiteRepository{}, sql.Store)
	require.NoError(t, sql.Store.Close())

	_, err = f.CreateBackend(ctx, Config{Type: SQLiteBackend})
	assert.Error(t, err)
	_, err = f.CreateBackend(ctx, Config{Type: "sheets"})
	assert.Error(t, err)
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", StoreRetryMax: 4})
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, cfg.Type)
	assert.Equal(t, 4, cfg.StoreRetryMax)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	assert.Error(t, err)
	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestGetBackendTypes(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		assert.True(t, bt.IsValid(), bt.String())
	}
	assert.False(t, BackendType("sheets").IsValid())
}
