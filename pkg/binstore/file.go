package binstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dukex/operion-recraft/pkg/models"
	"github.com/dukex/operion-recraft/pkg/protocol"
)

// File maps binary properties to files on disk and reads them on demand. Relative paths are
// resolved against the base directory.
type File struct {
	mu    sync.RWMutex
	base  string
	paths map[int]map[string]string
}

// NewFile creates a file-backed store rooted at base.
func NewFile(base string) *File {
	return &File{
		base:  base,
		paths: make(map[int]map[string]string),
	}
}

// Add registers path under property for the record at index.
func (f *File) Add(index int, property, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.paths[index] == nil {
		f.paths[index] = make(map[string]string)
	}

	f.paths[index][property] = path
}

// Binary reads the file registered under property.
func (f *File) Binary(ctx context.Context, index int, property string) (*models.BinaryAsset, error) {
	f.mu.RLock()
	path, ok := f.paths[index][property]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q on item %d", protocol.ErrBinaryNotFound, property, index)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !filepath.IsAbs(path) && f.base != "" {
		path = filepath.Join(f.base, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w %q on item %d: %w", protocol.ErrBinaryNotFound, property, index, err)
		}

		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return &models.BinaryAsset{
		Property: property,
		Data:     data,
		FileName: filepath.Base(path),
	}, nil
}
