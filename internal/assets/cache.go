// Package assets downloads, caches and plays the audio files of the catalog.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileCache stores downloaded files under a root directory.
type FileCache struct {
	rootDir string
}

func NewFileCache(cacheDirectory string) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
	}
}

// Path returns the local path of a cached file.
func (cache *FileCache) Path(relativePath string) string {
	return filepath.Join(cache.rootDir, filepath.FromSlash(relativePath))
}

func (cache *FileCache) Exists(relativePath string) bool {
	info, err := os.Stat(cache.Path(relativePath))
	return err == nil && !info.IsDir()
}

// Fetch returns the local path of the file, calling fetch only when it is not cached yet.
// A failed fetch or write leaves no file behind.
func (cache *FileCache) Fetch(relativePath string, fetch func() ([]byte, error)) (string, error) {
	localFilePath := cache.Path(relativePath)
	if cache.Exists(relativePath) {
		return localFilePath, nil
	}

	contents, err := fetch()
	if err != nil {
		return "", fmt.Errorf("fetch(%s) > %w", relativePath, err)
	}

	if err := cache.store(localFilePath, contents); err != nil {
		return "", err
	}
	return localFilePath, nil
}

func (cache *FileCache) store(localFilePath string, contents []byte) error {
	dir := filepath.Dir(localFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}

	file, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	defer func() {
		_ = os.Remove(file.Name())
	}()

	if _, err := file.Write(contents); err != nil {
		_ = file.Close()
		return fmt.Errorf("file.Write > %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close > %w", err)
	}
	if err := os.Rename(file.Name(), localFilePath); err != nil {
		return fmt.Errorf("os.Rename > %w", err)
	}
	return nil
}
