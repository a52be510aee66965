// Package recraft provides the Recraft image node: request building, dispatch and response
// normalization for the Recraft image-generation API.
package recraft

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukex/operion-recraft/pkg/models"
	"github.com/dukex/operion-recraft/pkg/otelhelper"
	"github.com/dukex/operion-recraft/pkg/protocol"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const NodeType = "recraft"

// Option customizes a Node.
type Option func(*options)

type options struct {
	httpClient *http.Client
	tracer     trace.Tracer
	now        func() time.Time
}

// WithHTTPClient sets the HTTP client used for dispatch.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTracer sets the tracer used for execution and dispatch spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithClock sets the clock used to timestamp error envelopes.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Node executes Recraft operations one record at a time.
type Node struct {
	config      Config
	credentials protocol.CredentialProvider
	resolver    *Resolver
	client      *Client
	normalizer  *Normalizer
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewNode creates a node. The credential provider is required; the binary store is only needed by
// file-bearing operations.
func NewNode(config Config, deps protocol.Dependencies, opts ...Option) (*Node, error) {
	if deps.Credentials == nil {
		return nil, configurationError(noItem, ErrMissingCredential, "credential provider is required")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	config = config.withDefaults()

	return &Node{
		config:      config,
		credentials: deps.Credentials,
		resolver:    NewResolver(deps.Binaries, config.MaxBinaryBytes),
		client:      NewClient(config.BaseURL, o.httpClient, o.tracer),
		normalizer:  NewNormalizer(o.now),
		tracer:      o.tracer,
		logger:      logger.With("node", NodeType),
	}, nil
}

// Type returns the node type.
func (n *Node) Type() string {
	return NodeType
}

// Config returns the effective configuration.
func (n *Node) Config() Config {
	return n.config
}

// Build composes the request for one record without dispatching it.
func (n *Node) Build(ctx context.Context, index int, item models.Item) (*models.RequestDescriptor, error) {
	token, err := n.token(ctx)
	if err != nil {
		return nil, atItem(err, index)
	}

	return NewBuilder(n.config, token, n.resolver).Build(ctx, index, item)
}

// Execute processes items in order. See protocol.Node for the failure policy. The execution ID is
// taken from ctx when the host set one.
func (n *Node) Execute(ctx context.Context, items []models.Item, continueOnFail bool) ([]models.ResultEnvelope, error) {
	executionID, ok := protocol.ExecutionID(ctx)
	if !ok {
		executionID = uuid.NewString()
		ctx = protocol.WithExecutionID(ctx, executionID)
	}

	logger := n.logger.With("execution_id", executionID)

	ctx, span := otelhelper.StartSpan(ctx, n.tracer, "recraft.execute",
		attribute.String(otelhelper.NodeTypeKey, NodeType),
		attribute.String(otelhelper.ExecutionIDKey, executionID),
		attribute.Int(otelhelper.ItemCountKey, len(items)),
		attribute.Bool("recraft.continue_on_fail", continueOnFail),
	)
	defer span.End()

	logger.DebugContext(ctx, "Executing Recraft node", "items", len(items), "continue_on_fail", continueOnFail)

	envelopes := make([]models.ResultEnvelope, 0, len(items))

	token, err := n.token(ctx)
	if err != nil {
		if !continueOnFail {
			otelhelper.SetErrorKind(span, err, errorKind(err))

			return envelopes, err
		}

		logger.WarnContext(ctx, "Credential unavailable, capturing error for every item", "error", err)

		for i := range items {
			envelopes = append(envelopes, n.normalizer.Capture(i, atItem(err, i)))
		}

		return envelopes, nil
	}

	builder := NewBuilder(n.config, token, n.resolver)

	for i, item := range items {
		envelope, err := n.process(ctx, logger, builder, i, item)
		if err != nil {
			if !continueOnFail {
				logger.ErrorContext(ctx, "Item failed, aborting execution", "item", i, "error", err)
				otelhelper.SetErrorKind(span, err, errorKind(err))

				return envelopes, err
			}

			logger.WarnContext(ctx, "Item failed, continuing", "item", i, "error", err)
			envelopes = append(envelopes, n.normalizer.Capture(i, err))

			continue
		}

		envelopes = append(envelopes, envelope)
	}

	return envelopes, nil
}

func (n *Node) process(ctx context.Context, logger *slog.Logger, builder *Builder, index int, item models.Item) (models.ResultEnvelope, error) {
	d, err := builder.Build(ctx, index, item)
	if err != nil {
		return models.ResultEnvelope{}, err
	}

	trace.SpanFromContext(ctx).AddEvent("recraft.item", trace.WithAttributes(
		attribute.Int(otelhelper.ItemIndexKey, index),
		attribute.String(otelhelper.OperationKey, d.Operation.String()),
	))

	logger.DebugContext(ctx, "Dispatching Recraft request",
		"item", index,
		"operation", d.Operation.String(),
		"method", d.Method,
		"path", d.Path,
	)

	resp, err := n.client.Do(ctx, d)

	return n.normalizer.Normalize(index, resp, err)
}

// CheckCredentials fetches the account behind the token and fails if the API does not return an
// account ID.
func (n *Node) CheckCredentials(ctx context.Context) (map[string]any, error) {
	envelopes, err := n.Execute(ctx, []models.Item{{Operation: models.OpGetUserInfo}}, false)
	if err != nil {
		return nil, err
	}

	info, ok := envelopes[0].Data.(map[string]any)
	if !ok {
		return nil, configurationError(noItem, ErrInvalidCredential, ErrInvalidCredential.Error())
	}

	if id, ok := info["id"]; !ok || id == nil || id == "" {
		return nil, configurationError(noItem, ErrInvalidCredential, ErrInvalidCredential.Error())
	}

	return info, nil
}

func (n *Node) token(ctx context.Context) (string, error) {
	token, err := n.credentials.APIToken(ctx)
	if err != nil {
		return "", configurationError(noItem, errors.Join(ErrMissingCredential, err), ErrMissingCredential.Error())
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", configurationError(noItem, ErrMissingCredential, ErrMissingCredential.Error())
	}

	return token, nil
}

// atItem ties a record-independent error to a record.
func atItem(err error, index int) error {
	var nodeErr *NodeError
	if !errors.As(err, &nodeErr) {
		return err
	}

	clone := *nodeErr
	clone.ItemIndex = index

	return &clone
}

func errorKind(err error) string {
	switch {
	case IsConfigurationError(err):
		return "configuration"
	case IsValidationError(err):
		return "validation"
	case IsTransportError(err):
		return "transport"
	case IsRemoteAPIError(err):
		return "remote_api"
	default:
		return "unknown"
	}
}
