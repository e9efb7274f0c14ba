package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache implements Service on top of a directory of JSON files.
// Entries never expire; it is the durable layer behind no-network runs.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-backed cache rooted at dir.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

func (fc *FileCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := marshalValue(value)
	if err != nil {
		return err
	}

	path := fc.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit cache file: %w", err)
	}
	return nil
}

func (fc *FileCache) Get(_ context.Context, key string, dest interface{}) error {
	data, err := os.ReadFile(fc.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrCacheMiss
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	return unmarshalValue(data, dest)
}

func (fc *FileCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := os.Remove(fc.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete cache file: %w", err)
		}
	}
	return nil
}

func (fc *FileCache) Exists(_ context.Context, keys ...string) (bool, error) {
	for _, key := range keys {
		if _, err := os.Stat(fc.path(key)); err == nil {
			return true, nil
		}
	}
	return false, nil
}

func (fc *FileCache) Close() error {
	return nil
}

func (fc *FileCache) path(key string) string {
	// Keys use ":" separators; flatten for the filesystem.
	name := strings.ReplaceAll(key, ":", "_") + ".json"
	return filepath.Join(fc.dir, name)
}
