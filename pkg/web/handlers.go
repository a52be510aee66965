// Package web provides HTTP handlers that let a remote host run registered nodes.
package web

import (
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/dukex/operion-recraft/pkg/binstore"
	"github.com/dukex/operion-recraft/pkg/protocol"
	"github.com/dukex/operion-recraft/pkg/registry"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type APIHandlers struct {
	registry    *registry.Registry
	validator   *validator.Validate
	credentials protocol.CredentialProvider
	nodeType    string
	nodeConfig  map[string]any
	logger      *slog.Logger
}

func NewAPIHandlers(
	registry *registry.Registry,
	validator *validator.Validate,
	credentials protocol.CredentialProvider,
	nodeType string,
	nodeConfig map[string]any,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		registry:    registry,
		validator:   validator,
		credentials: credentials,
		nodeType:    nodeType,
		nodeConfig:  nodeConfig,
		logger:      logger,
	}
}

// Execute runs a batch of records through the configured node.
func (h *APIHandlers) Execute(c fiber.Ctx) error {
	var req ExecuteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	store := binstore.NewMemory()

	for i, item := range req.Items {
		for property, payload := range item.Binary {
			data, err := base64.StdEncoding.DecodeString(payload.Data)
			if err != nil {
				return badRequest(c, "Invalid base64 data for binary property "+property)
			}

			store.Put(i, property, data, payload.FileName, payload.MimeType)
		}
	}

	executionID := uuid.NewString()
	ctx := protocol.WithExecutionID(c.Context(), executionID)

	node, err := h.registry.CreateNode(ctx, h.nodeType, h.nodeConfig, protocol.Dependencies{
		Credentials: h.credentials,
		Binaries:    store,
		Logger:      h.logger,
	})
	if err != nil {
		return handleNodeError(c, err)
	}

	start := time.Now()

	results, err := node.Execute(ctx, req.toItems(), req.ContinueOnFail)
	if err != nil {
		h.logger.WarnContext(ctx, "Execution aborted",
			"execution_id", executionID,
			"completed", len(results),
			"error", err,
		)

		return handleNodeError(c, err)
	}

	h.logger.InfoContext(ctx, "Execution finished",
		"execution_id", executionID,
		"items", len(results),
		"duration", time.Since(start),
	)

	return c.JSON(ExecuteResponse{
		ExecutionID: executionID,
		Results:     results,
	})
}

// GetNodes lists the registered node types.
func (h *APIHandlers) GetNodes(c fiber.Ctx) error {
	factories := h.registry.GetAvailableNodes()

	nodes := make([]NodeResponse, 0, len(factories))
	for _, factory := range factories {
		nodes = append(nodes, TransformNodeResponse(factory))
	}

	return c.JSON(fiber.Map{
		"nodes": nodes,
		"total": len(nodes),
	})
}

// GetNodeSchema returns the configuration schema of a node type.
func (h *APIHandlers) GetNodeSchema(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Node ID is required")
	}

	factory, ok := h.registry.GetNodeFactory(id)
	if !ok {
		return notFound(c, "Node type not found")
	}

	return c.JSON(factory.Schema())
}
