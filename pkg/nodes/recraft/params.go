package recraft

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/dukex/operion-recraft/pkg/catalog"
	"github.com/dukex/operion-recraft/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Parameter names accepted in a ParameterSet.
const (
	ParamPrompt          = "prompt"
	ParamModel           = "model"
	ParamStyle           = "style"
	ParamSubstyle        = "substyle"
	ParamSize            = "size"
	ParamNumberOfImages  = "numberOfImages"
	ParamStyleID         = "styleId"
	ParamResponseFormat  = "responseFormat"
	ParamNegativePrompt  = "negativePrompt"
	ParamAdvancedOptions = "advancedOptions"
	ParamInputImage      = "inputImage"
	ParamMaskImage       = "maskImage"
	ParamStrength        = "strength"
	ParamTransformStyle  = "transformStyle"
	ParamBaseStyle       = "baseStyle"
	ParamReferenceImages = "referenceImages"

	OptionColors          = "colorsJson"
	OptionBackgroundColor = "backgroundColor"
	OptionArtisticLevel   = "artisticLevel"
	OptionNoText          = "noText"
	OptionTextLayout      = "textLayout"
)

// Default binary property names.
const (
	DefaultInputImage      = "data"
	DefaultMaskImage       = "mask"
	DefaultReferenceImages = "data"
)

type generateParams struct {
	Prompt         string `param:"prompt"         validate:"notblank"`
	Model          string `param:"model"          validate:"model"`
	Size           string `param:"size"           validate:"size"`
	NumberOfImages int    `param:"numberOfImages" validate:"image_count"`
	ResponseFormat string `param:"responseFormat" validate:"response_format"`
	StyleID        string `param:"styleId"`
	Style          string `param:"style"`
	Substyle       string `param:"substyle"`
	NegativePrompt string `param:"negativePrompt"`
}

type transformParams struct {
	Prompt         string  `param:"prompt"         validate:"notblank"`
	TransformStyle string  `param:"transformStyle" validate:"transform_style"`
	NumberOfImages int     `param:"numberOfImages" validate:"image_count"`
	Strength       float64 `param:"strength"       validate:"gte=0,lte=1"`
	ResponseFormat string  `param:"responseFormat" validate:"response_format"`
	NegativePrompt string  `param:"negativePrompt"`
	InputImage     string  `param:"inputImage"     validate:"notblank"`
	MaskImage      string  `param:"maskImage"`
}

type assetParams struct {
	InputImage     string `param:"inputImage"     validate:"notblank"`
	ResponseFormat string `param:"responseFormat" validate:"response_format"`
}

type styleParams struct {
	BaseStyle       string   `param:"baseStyle"       validate:"base_style"`
	ReferenceImages []string `param:"referenceImages" validate:"reference_count"`
}

type advancedOptions struct {
	ArtisticLevel *int `param:"artisticLevel" validate:"omitempty,artistic_level"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("param")
	})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "model", stringIn(catalog.IsModel))
	mustRegister(v, "size", stringIn(catalog.IsSize))
	mustRegister(v, "response_format", stringIn(catalog.IsResponseFormat))
	mustRegister(v, "transform_style", stringIn(catalog.IsTransformStyle))
	mustRegister(v, "base_style", stringIn(catalog.IsBaseStyle))

	v.RegisterAlias("image_count", between(catalog.MinImageCount, catalog.MaxImageCount))
	v.RegisterAlias("artistic_level", between(catalog.MinArtisticLevel, catalog.MaxArtisticLevel))
	v.RegisterAlias("reference_count", between(catalog.MinReferences, catalog.MaxReferences))

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func between(lower, upper int) string {
	return fmt.Sprintf("min=%d,max=%d", lower, upper)
}

func stringIn(member func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return member(fl.Field().String())
	}
}

// validateParams runs struct validation and reports the first failing field.
func validateParams(index int, prefix string, params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return wrapValidation(index, prefix, err, "invalid parameters")
	}

	fe := validationErrors[0]

	return validationError(index, prefix+fe.Field(), "%s", fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	// Aliases such as image_count report the underlying min/max tag here.
	switch fe.ActualTag() {
	case "notblank", "required":
		return "is required"
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("requires at least %s entries, got %d", fe.Param(), reflect.ValueOf(fe.Value()).Len())
		}

		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "max", "lte":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("allows at most %s entries, got %d", fe.Param(), reflect.ValueOf(fe.Value()).Len())
		}

		return fmt.Sprintf("must be at most %s, got %v", fe.Param(), fe.Value())
	case "model":
		return fmt.Sprintf("unknown model %q, expected one of %s", fe.Value(), strings.Join(catalog.Models(), ", "))
	case "size":
		return fmt.Sprintf("unsupported size %q", fe.Value())
	case "response_format":
		return fmt.Sprintf("unsupported response format %q, expected one of %s", fe.Value(), strings.Join(catalog.ResponseFormats(), ", "))
	case "transform_style":
		return fmt.Sprintf("unsupported style %q, expected one of %s", fe.Value(), strings.Join(catalog.TransformStyles(), ", "))
	case "base_style":
		return fmt.Sprintf("unsupported base style %q, expected one of %s", fe.Value(), strings.Join(catalog.BaseStyles(), ", "))
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// paramReader reads typed values out of a ParameterSet. Absent and nil values take the default.
type paramReader struct {
	index  int
	prefix string
	params map[string]any
}

func newParamReader(index int, params models.ParameterSet) paramReader {
	return paramReader{index: index, params: params}
}

func (r paramReader) field(name string) string {
	return r.prefix + name
}

func (r paramReader) lookup(name string) (any, bool) {
	v, ok := r.params[name]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}

func (r paramReader) has(name string) bool {
	_, ok := r.lookup(name)

	return ok
}

func (r paramReader) string(name, def string) (string, error) {
	v, ok := r.lookup(name)
	if !ok {
		return def, nil
	}

	s, ok := v.(string)
	if !ok {
		return "", validationError(r.index, r.field(name), "must be a string, got %T", v)
	}

	return s, nil
}

func (r paramReader) float(name string, def float64) (float64, error) {
	v, ok := r.lookup(name)
	if !ok {
		return def, nil
	}

	f, ok := number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, validationError(r.index, r.field(name), "must be a number, got %v", v)
	}

	return f, nil
}

func (r paramReader) int(name string, def int) (int, error) {
	f, err := r.float(name, float64(def))
	if err != nil {
		return 0, err
	}

	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, validationError(r.index, r.field(name), "must be an integer, got %v", f)
	}

	return int(f), nil
}

func (r paramReader) optionalInt(name string) (*int, error) {
	if !r.has(name) {
		return nil, nil
	}

	n, err := r.int(name, 0)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (r paramReader) optionalBool(name string) (*bool, error) {
	v, ok := r.lookup(name)
	if !ok {
		return nil, nil
	}

	b, ok := v.(bool)
	if !ok {
		return nil, validationError(r.index, r.field(name), "must be a boolean, got %T", v)
	}

	return &b, nil
}

// nested returns a reader over a sub-object. ok is false when the key is absent.
func (r paramReader) nested(name string) (paramReader, bool, error) {
	v, ok := r.lookup(name)
	if !ok {
		return paramReader{}, false, nil
	}

	m, ok := asMap(v)
	if !ok {
		return paramReader{}, false, validationError(r.index, r.field(name), "must be an object, got %T", v)
	}

	return paramReader{index: r.index, prefix: r.field(name) + ".", params: m}, true, nil
}

// names reads a list of binary property names from a comma-separated string or a list.
// Blank entries are dropped, order is preserved.
func (r paramReader) names(name, def string) ([]string, error) {
	v, ok := r.lookup(name)
	if !ok {
		v = def
	}

	var raw []string

	switch list := v.(type) {
	case string:
		raw = strings.Split(list, ",")
	case []string:
		raw = list
	case []any:
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, validationError(r.index, fmt.Sprintf("%s[%d]", r.field(name), i), "must be a string, got %T", item)
			}

			raw = append(raw, s)
		}
	default:
		return nil, validationError(r.index, r.field(name), "must be a string or a list of strings, got %T", v)
	}

	names := make([]string, 0, len(raw))

	for _, n := range raw {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}

	return names, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case models.ParameterSet:
		return m, true
	default:
		return nil, false
	}
}

func readGenerateParams(r paramReader) (generateParams, error) {
	var (
		p   generateParams
		err error
	)

	if p.Prompt, err = r.string(ParamPrompt, ""); err != nil {
		return p, err
	}

	if p.Model, err = r.string(ParamModel, catalog.DefaultModel); err != nil {
		return p, err
	}

	if p.Size, err = r.string(ParamSize, catalog.DefaultSize); err != nil {
		return p, err
	}

	if p.NumberOfImages, err = r.int(ParamNumberOfImages, catalog.DefaultImageCount); err != nil {
		return p, err
	}

	if p.ResponseFormat, err = r.string(ParamResponseFormat, catalog.DefaultResponseFormat); err != nil {
		return p, err
	}

	if p.StyleID, err = r.string(ParamStyleID, ""); err != nil {
		return p, err
	}

	if p.Style, err = r.string(ParamStyle, catalog.DefaultStyle); err != nil {
		return p, err
	}

	if p.Substyle, err = r.string(ParamSubstyle, ""); err != nil {
		return p, err
	}

	if p.NegativePrompt, err = r.string(ParamNegativePrompt, ""); err != nil {
		return p, err
	}

	return p, validateParams(r.index, r.prefix, p)
}

func readTransformParams(r paramReader, op models.Operation) (transformParams, error) {
	var (
		p   transformParams
		err error
	)

	if p.Prompt, err = r.string(ParamPrompt, ""); err != nil {
		return p, err
	}

	if p.TransformStyle, err = r.string(ParamTransformStyle, catalog.DefaultTransformStyle); err != nil {
		return p, err
	}

	if p.NumberOfImages, err = r.int(ParamNumberOfImages, catalog.DefaultImageCount); err != nil {
		return p, err
	}

	if op == models.OpImageToImage {
		if p.Strength, err = r.float(ParamStrength, catalog.DefaultStrength); err != nil {
			return p, err
		}
	}

	if p.ResponseFormat, err = r.string(ParamResponseFormat, catalog.DefaultResponseFormat); err != nil {
		return p, err
	}

	if p.NegativePrompt, err = r.string(ParamNegativePrompt, ""); err != nil {
		return p, err
	}

	if p.InputImage, err = r.string(ParamInputImage, DefaultInputImage); err != nil {
		return p, err
	}

	if op == models.OpInpaint {
		if p.MaskImage, err = r.string(ParamMaskImage, DefaultMaskImage); err != nil {
			return p, err
		}

		if strings.TrimSpace(p.MaskImage) == "" {
			return p, validationError(r.index, r.field(ParamMaskImage), "is required")
		}
	}

	return p, validateParams(r.index, r.prefix, p)
}

func readAssetParams(r paramReader) (assetParams, error) {
	var (
		p   assetParams
		err error
	)

	if p.InputImage, err = r.string(ParamInputImage, DefaultInputImage); err != nil {
		return p, err
	}

	if p.ResponseFormat, err = r.string(ParamResponseFormat, catalog.DefaultResponseFormat); err != nil {
		return p, err
	}

	return p, validateParams(r.index, r.prefix, p)
}

func readStyleParams(r paramReader) (styleParams, error) {
	var (
		p   styleParams
		err error
	)

	if p.BaseStyle, err = r.string(ParamBaseStyle, catalog.DefaultBaseStyle); err != nil {
		return p, err
	}

	if p.ReferenceImages, err = r.names(ParamReferenceImages, DefaultReferenceImages); err != nil {
		return p, err
	}

	return p, validateParams(r.index, r.prefix, p)
}
