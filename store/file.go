package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"orderease/models"
)

// FileStore keeps the snapshot in a single JSON file. Writes go to a
// temporary file that is renamed over the target.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Save(ctx context.Context, r *models.Restaurant) error {
	if err := ctx.Err(); err != nil {
		return saveErr("cancelled", err)
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return saveErr("create directory", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return saveErr("create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, r, time.Now().UTC()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return saveErr("sync", err)
	}
	if err := tmp.Close(); err != nil {
		return saveErr("close", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return saveErr("rename", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context) (*models.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadErr("cancelled", err)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, loadErr("missing file "+s.Path, ErrNoSnapshot)
		}
		return nil, loadErr("open", err)
	}
	defer f.Close()
	return Decode(f)
}

func (s *FileStore) Close() error { return nil }
