package recraft

import (
	"context"

	"github.com/dukex/operion-recraft/pkg/models"
	"github.com/dukex/operion-recraft/pkg/protocol"
)

// Factory creates Recraft nodes.
type Factory struct {
	opts []Option
}

// NewFactory creates a new Recraft node factory. Options are applied to every node it creates.
func NewFactory(opts ...Option) protocol.NodeFactory {
	return &Factory{opts: opts}
}

// Create creates a new Recraft node.
func (f *Factory) Create(ctx context.Context, config map[string]any, deps protocol.Dependencies) (protocol.Node, error) {
	cfg, err := ParseConfig(config)
	if err != nil {
		return nil, err
	}

	return NewNode(cfg, deps, f.opts...)
}

// ID returns the factory ID.
func (f *Factory) ID() string {
	return NodeType
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "Recraft v3"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Generate and edit images using Recraft v3 AI: generation, image-to-image, inpainting, " +
		"background replacement and removal, vectorization, upscaling and custom styles"
}

// Operations returns the operations a Recraft node accepts.
func (f *Factory) Operations() []models.Operation {
	return models.Operations()
}

// Schema returns the JSON schema for Recraft node configuration.
func (f *Factory) Schema() map[string]any {
	schema := configSchema()

	ops := make([]string, 0, len(models.Operations()))
	for _, op := range models.Operations() {
		ops = append(ops, op.String())
	}

	schema["x-operations"] = ops
	schema["examples"] = []map[string]any{
		{},
		{
			"base_url":         DefaultBaseURL,
			"timeout":          120,
			"max_prompt_bytes": DefaultMaxPromptBytes,
		},
	}

	return schema
}
