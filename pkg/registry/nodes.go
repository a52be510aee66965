package registry

import (
	"github.com/dukex/operion-recraft/pkg/nodes/recraft"
)

// RegisterDefaultNodes registers all built-in node factories with the registry.
func (r *Registry) RegisterDefaultNodes(opts ...recraft.Option) {
	// Register Recraft node
	r.RegisterNode(recraft.NewFactory(opts...))
}
