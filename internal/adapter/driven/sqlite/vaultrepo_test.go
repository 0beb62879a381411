package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultBlobRepo_ReadMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVaultBlobRepo(db)

	blob, err := repo.Read(context.Background(), "alice")
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestVaultBlobRepo_WriteAndRead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVaultBlobRepo(db)
	ctx := context.Background()

	err := repo.Write(ctx, "alice", []byte("c2VhbGVk"))
	require.NoError(t, err)

	blob, err := repo.Read(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "c2VhbGVk", string(blob))
}

func TestVaultBlobRepo_WriteReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVaultBlobRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, "alice", []byte("old")))
	require.NoError(t, repo.Write(ctx, "alice", []byte("new")))

	blob, err := repo.Read(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "new", string(blob))
}

func TestVaultBlobRepo_OwnersAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVaultBlobRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, "carol", []byte("c")))
	require.NoError(t, repo.Write(ctx, "alice", []byte("a")))

	blob, err := repo.Read(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, "c", string(blob))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, RunMigrations(db.Writer))
}

func TestOpen_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vaults.db")

	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	assert.Equal(t, path, db.Path())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	repo := NewVaultBlobRepo(db)
	ctx := context.Background()
	require.NoError(t, repo.Write(ctx, "alice", []byte("persisted")))

	blob, err := repo.Read(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(blob))
}
