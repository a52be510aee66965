package recraft

import (
	"bytes"
	"testing"

	"github.com/dukex/operion-recraft/pkg/binstore"
	"github.com/dukex/operion-recraft/pkg/models"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// pngOfSize returns n bytes that sniff as image/png.
func pngOfSize(n int) []byte {
	data := make([]byte, n)
	copy(data, pngSignature)

	return data
}

func pngData() []byte {
	return append(bytes.Clone(pngSignature), "\x00\x00\x00\rIHDR"...)
}

func newStore(t *testing.T) *binstore.Memory {
	t.Helper()

	store := binstore.NewMemory()
	store.Put(0, "data", pngData(), "input.png", "image/png")
	store.Put(0, "mask", pngData(), "", "")

	return store
}

func newTestBuilder(store *binstore.Memory) *Builder {
	return NewBuilder(DefaultConfig(), "test-token", NewResolver(store, 0))
}

func item(op models.Operation, params models.ParameterSet) models.Item {
	return models.Item{Operation: op, Params: params}
}
