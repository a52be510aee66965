package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	testCases := []struct {
		name        string
		pluginsPath string
	}{
		{"no plugins path", ""},
		{"missing plugins path", filepath.Join(t.TempDir(), "plugins")},
		{"empty plugins path", t.TempDir()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg, err := NewRegistry(context.Background(), slog.Default(), tc.pluginsPath)
			require.NoError(t, err)

			nodes := reg.GetAvailableNodes()
			require.Len(t, nodes, 1)
			assert.Equal(t, "recraft", nodes[0].ID())
		})
	}
}

func TestNewTracer_Disabled(t *testing.T) {
	shutdown, err := NewTracer(context.Background(), slog.Default(), false, "recraft")
	require.NoError(t, err)
	assert.NotPanics(t, func() { shutdown(context.Background()) })
}
