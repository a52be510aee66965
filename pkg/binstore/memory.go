// Package binstore provides BinaryStore implementations for hosts that run the Recraft node.
package binstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/dukex/operion-recraft/pkg/models"
	"github.com/dukex/operion-recraft/pkg/protocol"
)

// Memory keeps assets in memory, keyed by record index and property name.
type Memory struct {
	mu     sync.RWMutex
	assets map[int]map[string]*models.BinaryAsset
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{assets: make(map[int]map[string]*models.BinaryAsset)}
}

// Put stores data under property for the record at index, replacing any previous asset.
func (m *Memory) Put(index int, property string, data []byte, fileName, mimeType string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.assets[index] == nil {
		m.assets[index] = make(map[string]*models.BinaryAsset)
	}

	m.assets[index][property] = &models.BinaryAsset{
		Property: property,
		Data:     data,
		FileName: fileName,
		MimeType: mimeType,
	}
}

// Binary returns a copy of the stored asset header; the data slice is shared and must not be
// modified by callers.
func (m *Memory) Binary(_ context.Context, index int, property string) (*models.BinaryAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	asset, ok := m.assets[index][property]
	if !ok {
		return nil, fmt.Errorf("%w %q on item %d", protocol.ErrBinaryNotFound, property, index)
	}

	clone := *asset

	return &clone, nil
}

// Len returns the number of records holding at least one asset.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.assets)
}
