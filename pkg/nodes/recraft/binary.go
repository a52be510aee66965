package recraft

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/dukex/operion-recraft/pkg/catalog"
	"github.com/dukex/operion-recraft/pkg/models"
	"github.com/dukex/operion-recraft/pkg/protocol"
	"github.com/gabriel-vasile/mimetype"
)

// Resolver fetches binary assets from the host store and enforces upload limits before the
// request builder sees them.
type Resolver struct {
	store    protocol.BinaryStore
	maxBytes int
}

// NewResolver creates a resolver. maxBytes <= 0 selects DefaultMaxBinaryBytes.
func NewResolver(store protocol.BinaryStore, maxBytes int) *Resolver {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBinaryBytes
	}

	return &Resolver{store: store, maxBytes: maxBytes}
}

// Resolve returns a copy of the asset with its media type filled in.
func (r *Resolver) Resolve(ctx context.Context, index int, field, property string) (*models.BinaryAsset, error) {
	property = strings.TrimSpace(property)
	if property == "" {
		return nil, validationError(index, field, "binary property name is required")
	}

	if r.store == nil {
		return nil, configurationError(index, protocol.ErrBinaryNotFound, "no binary store configured")
	}

	asset, err := r.store.Binary(ctx, index, property)
	if err != nil {
		if errors.Is(err, protocol.ErrBinaryNotFound) {
			return nil, wrapValidation(index, field, err,
				"no binary data found in property %q, connect a node that provides binary data", property)
		}

		return nil, wrapValidation(index, field, err, "reading binary property %q: %v", property, err)
	}

	if asset == nil || len(asset.Data) == 0 {
		return nil, wrapValidation(index, field, protocol.ErrBinaryNotFound, "binary property %q is empty", property)
	}

	if asset.Size() > r.maxBytes {
		return nil, wrapValidation(index, field, ErrBinaryTooLarge,
			"binary data exceeds limits: file size (%s) exceeds the %s limit", formatSize(asset.Size()), formatSize(r.maxBytes))
	}

	mimeType := normalizeMimeType(asset.MimeType)
	if mimeType == "" {
		mimeType = normalizeMimeType(mimetype.Detect(asset.Data).String())
	}

	if !catalog.IsMimeType(mimeType) {
		return nil, wrapValidation(index, field, ErrUnsupportedMediaType,
			"unsupported file type: %s, supported types: PNG, JPEG, WEBP", mimeType)
	}

	return &models.BinaryAsset{
		Property: property,
		Data:     asset.Data,
		FileName: asset.FileName,
		MimeType: mimeType,
	}, nil
}

// MaxBytes returns the per-asset ceiling.
func (r *Resolver) MaxBytes() int {
	return r.maxBytes
}

func normalizeMimeType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(s)
	if err != nil {
		return strings.ToLower(s)
	}

	return mediaType
}

func formatSize(n int) string {
	const mib = 1024 * 1024

	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}

	return fmt.Sprintf("%.1fMB", float64(n)/mib)
}
