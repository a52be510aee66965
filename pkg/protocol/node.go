// Package protocol defines the contracts between an orchestration host and pluggable nodes.
package protocol

import (
	"context"
	"log/slog"

	"github.com/dukex/operion-recraft/pkg/models"
)

// NodeFactory creates node instances and provides metadata about the node type.
type NodeFactory interface {
	// Create creates a new node instance with the given configuration
	Create(ctx context.Context, config map[string]any, deps Dependencies) (Node, error)

	// ID returns the unique identifier for this node type
	ID() string

	// Name returns the human-readable name for this node type
	Name() string

	// Description returns a description of what this node does
	Description() string

	// Schema returns the JSON schema for configuring this node
	Schema() map[string]any

	// Operations lists the operations the node accepts
	Operations() []models.Operation
}

// Node runs a batch of records sequentially and returns one envelope per record.
//
// With continueOnFail set, every failure is captured in its record's envelope and the batch
// always yields len(items) envelopes. Otherwise the first failure stops the batch and is
// returned alongside the envelopes produced before it.
type Node interface {
	Type() string
	Execute(ctx context.Context, items []models.Item, continueOnFail bool) ([]models.ResultEnvelope, error)
	// Build composes the request for one record without dispatching it.
	Build(ctx context.Context, index int, item models.Item) (*models.RequestDescriptor, error)
}

// Dependencies are the host-owned collaborators handed to a node.
type Dependencies struct {
	Credentials CredentialProvider
	Binaries    BinaryStore
	Logger      *slog.Logger
}

// CredentialProvider supplies the API token. An empty token means no credential is configured.
type CredentialProvider interface {
	APIToken(ctx context.Context) (string, error)
}

// BinaryStore exposes the host's per-record binary data. Implementations are read-only.
type BinaryStore interface {
	// Binary returns the asset stored under property for the record at index.
	Binary(ctx context.Context, index int, property string) (*models.BinaryAsset, error)
}
