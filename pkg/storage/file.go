package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/goccy/go-json"
)

// FileStore keeps the snapshot in a single JSON file. Writes go to a temporary
// file in the same directory which is then renamed over the target, so a crash
// mid-write leaves the previous document intact.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Name implements Store
func (f *FileStore) Name() string {
	return "file:" + f.path
}

// Path returns the backing file
func (f *FileStore) Path() string {
	return f.path
}

// Load implements Store
func (f *FileStore) Load(ctx context.Context) (*models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leyendo %s: %w", f.path, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	snap.Normalize()
	return &snap, nil
}

// Save implements Store
func (f *FileStore) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("serializando datos: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return writeFileAtomic(f.path, data, 0o644)
}

// Quarantine moves a malformed document aside so the next Save does not
// destroy it. It returns the new location.
func (f *FileStore) Quarantine() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := fmt.Sprintf("%s.corrupt-%s", f.path, time.Now().UTC().Format("20060102150405"))
	if err := os.Rename(f.path, target); err != nil {
		return "", err
	}
	return target, nil
}

func writeFileAtomic(name string, data []byte, perm fs.FileMode) (err error) {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+".tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
