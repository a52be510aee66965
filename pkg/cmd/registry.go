// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/dukex/operion-recraft/pkg/nodes/recraft"
	"github.com/dukex/operion-recraft/pkg/registry"
)

func registerNodePlugins(ctx context.Context, log *slog.Logger, reg *registry.Registry, pluginsPath string) error {
	if pluginsPath == "" {
		return nil
	}

	if _, err := os.Stat(pluginsPath); errors.Is(err, fs.ErrNotExist) {
		log.DebugContext(ctx, "Plugins path does not exist, skipping", "path", pluginsPath)

		return nil
	}

	return reg.LoadNodePlugins(pluginsPath)
}

// NewRegistry creates a registry holding the plugins found under pluginsPath and the built-in
// nodes. Built-in nodes win over plugins with the same ID.
func NewRegistry(ctx context.Context, log *slog.Logger, pluginsPath string, opts ...recraft.Option) (*registry.Registry, error) {
	reg := registry.NewRegistry(log)

	if err := registerNodePlugins(ctx, log, reg, pluginsPath); err != nil {
		return nil, err
	}

	reg.RegisterDefaultNodes(opts...)

	return reg, nil
}
