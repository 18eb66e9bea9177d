package bootstrap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tosin2013/vault-raft-bootstrap/internal/vault"
)

// MaterialStore persists unseal material across process restarts. Written
// once by the initializer, read by the unseal coordinator on resume; no
// concurrent writers are expected.
type MaterialStore interface {
	// Load reads previously persisted material. Returns an error wrapping
	// fs.ErrNotExist when nothing has been persisted.
	Load() (*vault.Material, error)

	// Save persists material atomically with restricted permissions.
	Save(material *vault.Material) error

	// Exists reports whether persisted material is present.
	Exists() bool

	// Path identifies the backing location for diagnostics.
	Path() string
}

// FileStore keeps unseal material in a JSON file readable only by the
// operator. The write is temp-file-then-rename so a crash mid-write cannot
// leave a corrupt or partial key set.
type FileStore struct {
	path string
}

// NewFileStore creates a store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Exists implements MaterialStore.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load implements MaterialStore.
func (s *FileStore) Load() (*vault.Material, error) {
	// #nosec G304
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no persisted material at %s: %w", s.path, err)
		}
		return nil, fmt.Errorf("failed to read material file: %w", err)
	}

	var material vault.Material
	if err := json.Unmarshal(data, &material); err != nil {
		return nil, fmt.Errorf("failed to parse material file %s: %w", s.path, err)
	}
	if err := material.Validate(); err != nil {
		return nil, fmt.Errorf("material file %s is invalid: %w", s.path, err)
	}

	return &material, nil
}

// Save implements MaterialStore.
func (s *FileStore) Save(material *vault.Material) error {
	if err := material.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid material: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create material dir: %w", err)
	}

	data, err := json.MarshalIndent(material, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal material: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".vault-init-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if err := tmp.Chmod(0o600); err != nil {
		cleanup()
		return fmt.Errorf("failed to restrict temp file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write material: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync material: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move material into place: %w", err)
	}

	return nil
}
