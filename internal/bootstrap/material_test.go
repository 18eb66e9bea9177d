package bootstrap_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosin2013/vault-raft-bootstrap/internal/bootstrap"
	testutil "github.com/tosin2013/vault-raft-bootstrap/internal/testing"
	"github.com/tosin2013/vault-raft-bootstrap/internal/vault"
)

func TestFileStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets", "vault-init.json")
	store := bootstrap.NewFileStore(path)
	material := testutil.TestMaterial(5, 3)

	assert.False(t, store.Exists())
	require.NoError(t, store.Save(material))
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, material, loaded)
}

func TestFileStore_RestrictedPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault-init.json")
	store := bootstrap.NewFileStore(path)
	require.NoError(t, store.Save(testutil.TestMaterial(5, 3)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store := bootstrap.NewFileStore(filepath.Join(dir, "vault-init.json"))
	require.NoError(t, store.Save(testutil.TestMaterial(5, 3)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "vault-init.json", entries[0].Name())
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := bootstrap.NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	_, err := store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault-init.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := bootstrap.NewFileStore(path)
	_, err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestFileStore_LoadInvalidMaterial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault-init.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"unseal_keys":[],"unseal_threshold":0}`), 0o600))

	store := bootstrap.NewFileStore(path)
	_, err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestFileStore_RefusesInvalidMaterial(t *testing.T) {
	store := bootstrap.NewFileStore(filepath.Join(t.TempDir(), "vault-init.json"))

	err := store.Save(&vault.Material{Threshold: 3})
	require.Error(t, err)
	assert.False(t, store.Exists())
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault-init.json")
	store := bootstrap.NewFileStore(path)

	require.NoError(t, store.Save(testutil.TestMaterial(3, 2)))
	replacement := testutil.TestMaterial(5, 3)
	require.NoError(t, store.Save(replacement))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, replacement, loaded)
}
