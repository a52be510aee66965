package recraft

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukex/operion-recraft/pkg/catalog"
	"github.com/dukex/operion-recraft/pkg/models"
)

// Endpoint paths, relative to the base URL.
const (
	PathGenerations       = "/images/generations"
	PathImageToImage      = "/images/imageToImage"
	PathInpaint           = "/images/inpaint"
	PathReplaceBackground = "/images/replaceBackground"
	PathRemoveBackground  = "/images/removeBackground"
	PathVectorize         = "/images/vectorize"
	PathCrispUpscale      = "/images/crispUpscale"
	PathCreativeUpscale   = "/images/creativeUpscale"
	PathStyles            = "/styles"
	PathUserInfo          = "/users/me"
)

// Multipart part names dictated by the API.
const (
	PartImage = "image"
	PartMask  = "mask"
	PartFile  = "file"
)

var endpoints = map[models.Operation]string{
	models.OpGenerate:          PathGenerations,
	models.OpImageToImage:      PathImageToImage,
	models.OpInpaint:           PathInpaint,
	models.OpReplaceBackground: PathReplaceBackground,
	models.OpRemoveBackground:  PathRemoveBackground,
	models.OpVectorize:         PathVectorize,
	models.OpCrispUpscale:      PathCrispUpscale,
	models.OpCreativeUpscale:   PathCreativeUpscale,
	models.OpCreateStyle:       PathStyles,
	models.OpGetUserInfo:       PathUserInfo,
}

// Endpoint returns the method and path for an operation.
func Endpoint(op models.Operation) (method, path string, ok bool) {
	path, ok = endpoints[op]
	if !ok {
		return "", "", false
	}

	if op == models.OpGetUserInfo {
		return http.MethodGet, path, true
	}

	return http.MethodPost, path, true
}

// Builder maps one record to one RequestDescriptor. It validates every parameter before any
// network call is attempted.
type Builder struct {
	config   Config
	token    string
	resolver *Resolver
}

// NewBuilder creates a builder that signs requests with token.
func NewBuilder(config Config, token string, resolver *Resolver) *Builder {
	if resolver == nil {
		resolver = NewResolver(nil, config.MaxBinaryBytes)
	}

	return &Builder{
		config:   config.withDefaults(),
		token:    token,
		resolver: resolver,
	}
}

// Build composes the request for the record at index.
func (b *Builder) Build(ctx context.Context, index int, item models.Item) (*models.RequestDescriptor, error) {
	op := item.Operation

	if op.IsMalformed() {
		return nil, configurationError(index, fmt.Errorf("%w: %w", ErrUnsupportedOperation, models.ErrMalformedOperation),
			fmt.Sprintf("malformed operation %q, expected resource.action", op.Action))
	}

	if !op.IsSupported() {
		return nil, configurationError(index, ErrUnsupportedOperation,
			fmt.Sprintf("unsupported operation %q for resource %q", op.Action, op.Resource))
	}

	if b.token == "" {
		return nil, configurationError(index, ErrMissingCredential, ErrMissingCredential.Error())
	}

	r := newParamReader(index, item.Params)

	switch op {
	case models.OpGenerate:
		return b.buildGenerate(r)
	case models.OpImageToImage, models.OpInpaint, models.OpReplaceBackground:
		return b.buildTransform(ctx, r, op)
	case models.OpRemoveBackground, models.OpVectorize, models.OpCrispUpscale, models.OpCreativeUpscale:
		return b.buildAssetTransform(ctx, r, op)
	case models.OpCreateStyle:
		return b.buildCreateStyle(ctx, r)
	default:
		return b.descriptor(models.OpGetUserInfo), nil
	}
}

func (b *Builder) descriptor(op models.Operation) *models.RequestDescriptor {
	method, path, _ := Endpoint(op)

	return &models.RequestDescriptor{
		Operation: op,
		Method:    method,
		Path:      path,
		Headers: map[string]string{
			"Authorization": "Bearer " + b.token,
			"Accept":        "application/json",
		},
		Timeout: b.config.Timeout,
	}
}

func (b *Builder) buildGenerate(r paramReader) (*models.RequestDescriptor, error) {
	p, err := readGenerateParams(r)
	if err != nil {
		return nil, err
	}

	if err := b.checkPromptSize(r.index, ParamPrompt, p.Prompt); err != nil {
		return nil, err
	}

	negative := strings.TrimSpace(p.NegativePrompt)
	if err := b.checkPromptSize(r.index, ParamNegativePrompt, negative); err != nil {
		return nil, err
	}

	selector, err := styleSelector(r.index, p)
	if err != nil {
		return nil, err
	}

	controls, layout, err := readControls(r, p.Model)
	if err != nil {
		return nil, err
	}

	body := &models.GenerationBody{
		Prompt:         p.Prompt,
		Model:          p.Model,
		Size:           p.Size,
		N:              p.NumberOfImages,
		ResponseFormat: p.ResponseFormat,
		NegativePrompt: negative,
		Controls:       controls,
		TextLayout:     layout,
	}
	body.ApplyStyle(selector)

	d := b.descriptor(models.OpGenerate)
	d.Headers["Content-Type"] = "application/json"
	d.JSONBody = body

	return d, nil
}

// styleSelector prefers a custom style ID; otherwise the style and substyle must be valid for the
// model.
func styleSelector(index int, p generateParams) (models.StyleSelector, error) {
	if id := strings.TrimSpace(p.StyleID); id != "" {
		return models.StyleByID{ID: id}, nil
	}

	if !catalog.IsStyle(p.Model, p.Style) {
		return nil, validationError(index, ParamStyle, "style %q is not available for model %q, expected one of %s",
			p.Style, p.Model, strings.Join(catalog.Styles(p.Model), ", "))
	}

	substyle := strings.TrimSpace(p.Substyle)
	if substyle != "" && !catalog.IsSubstyle(p.Model, p.Style, substyle) {
		return nil, validationError(index, ParamSubstyle, "substyle %q is not valid for style %q with model %q",
			substyle, p.Style, p.Model)
	}

	return models.StyleByName{Style: p.Style, Substyle: substyle}, nil
}

func (b *Builder) buildTransform(ctx context.Context, r paramReader, op models.Operation) (*models.RequestDescriptor, error) {
	p, err := readTransformParams(r, op)
	if err != nil {
		return nil, err
	}

	if err := b.checkPromptSize(r.index, ParamPrompt, p.Prompt); err != nil {
		return nil, err
	}

	negative := strings.TrimSpace(p.NegativePrompt)
	if err := b.checkPromptSize(r.index, ParamNegativePrompt, negative); err != nil {
		return nil, err
	}

	image, err := b.resolver.Resolve(ctx, r.index, ParamInputImage, p.InputImage)
	if err != nil {
		return nil, err
	}

	d := b.descriptor(op)
	d.Form = append(d.Form, models.FormField{Name: "prompt", Value: p.Prompt})

	if op == models.OpImageToImage {
		d.Form = append(d.Form, models.FormField{Name: "strength", Value: strconv.FormatFloat(p.Strength, 'f', -1, 64)})
	}

	d.Form = append(d.Form,
		models.FormField{Name: "style", Value: p.TransformStyle},
		models.FormField{Name: "n", Value: strconv.Itoa(p.NumberOfImages)},
		models.FormField{Name: "response_format", Value: p.ResponseFormat},
	)

	if negative != "" {
		d.Form = append(d.Form, models.FormField{Name: "negative_prompt", Value: negative})
	}

	d.Files = append(d.Files, filePart(PartImage, image, "image.png"))

	if op == models.OpInpaint {
		mask, err := b.resolver.Resolve(ctx, r.index, ParamMaskImage, p.MaskImage)
		if err != nil {
			return nil, err
		}

		d.Files = append(d.Files, filePart(PartMask, mask, "mask.png"))
	}

	return d, nil
}

func (b *Builder) buildAssetTransform(ctx context.Context, r paramReader, op models.Operation) (*models.RequestDescriptor, error) {
	p, err := readAssetParams(r)
	if err != nil {
		return nil, err
	}

	image, err := b.resolver.Resolve(ctx, r.index, ParamInputImage, p.InputImage)
	if err != nil {
		return nil, err
	}

	d := b.descriptor(op)
	d.Form = []models.FormField{{Name: "response_format", Value: p.ResponseFormat}}
	d.Files = []models.FilePart{filePart(PartFile, image, "image.png")}

	return d, nil
}

func (b *Builder) buildCreateStyle(ctx context.Context, r paramReader) (*models.RequestDescriptor, error) {
	p, err := readStyleParams(r)
	if err != nil {
		return nil, err
	}

	d := b.descriptor(models.OpCreateStyle)
	d.Form = []models.FormField{{Name: "style", Value: p.BaseStyle}}

	total := 0

	for i, name := range p.ReferenceImages {
		field := fmt.Sprintf("%s[%d]", ParamReferenceImages, i)

		image, err := b.resolver.Resolve(ctx, r.index, field, name)
		if err != nil {
			return nil, err
		}

		total += image.Size()
		if total > b.resolver.MaxBytes() {
			return nil, wrapValidation(r.index, ParamReferenceImages, ErrBinaryTooLarge,
				"binary data exceeds limits: reference images total more than %s", formatSize(b.resolver.MaxBytes()))
		}

		partName := fmt.Sprintf("file%d", i+1)
		d.Files = append(d.Files, filePart(partName, image, fmt.Sprintf("image%d.png", i+1)))
	}

	return d, nil
}

func (b *Builder) checkPromptSize(index int, field, prompt string) error {
	if size := len(prompt); size > b.config.MaxPromptBytes {
		return validationError(index, field, "prompt is too long (%d bytes), maximum allowed is %d bytes",
			size, b.config.MaxPromptBytes)
	}

	return nil
}

func filePart(name string, asset *models.BinaryAsset, defaultFileName string) models.FilePart {
	fileName := asset.FileName
	if fileName == "" {
		fileName = defaultFileName
	}

	return models.FilePart{
		Name:        name,
		FileName:    fileName,
		ContentType: asset.MimeType,
		Data:        asset.Data,
	}
}
