package recraft

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dukex/operion-recraft/pkg/binstore"
	"github.com/dukex/operion-recraft/pkg/catalog"
	"github.com/dukex/operion-recraft/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint(t *testing.T) {
	for _, op := range models.Operations() {
		method, path, ok := Endpoint(op)
		require.True(t, ok, op.String())
		assert.NotEmpty(t, path)

		if op == models.OpGetUserInfo {
			assert.Equal(t, http.MethodGet, method)
		} else {
			assert.Equal(t, http.MethodPost, method)
		}
	}

	_, _, ok := Endpoint(models.Operation{Resource: "image", Action: "unknown"})
	assert.False(t, ok)
}

func TestBuilder_Generate_Defaults(t *testing.T) {
	b := newTestBuilder(newStore(t))

	d, err := b.Build(context.Background(), 0, item(models.OpGenerate, models.ParameterSet{
		ParamPrompt: "a red fox",
	}))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, d.Method)
	assert.Equal(t, PathGenerations, d.Path)
	assert.Equal(t, "Bearer test-token", d.Headers["Authorization"])
	assert.Equal(t, "application/json", d.Headers["Content-Type"])
	assert.Equal(t, DefaultTimeout, d.Timeout)
	assert.False(t, d.IsMultipart())

	body, ok := d.JSONBody.(*models.GenerationBody)
	require.True(t, ok)
	assert.Equal(t, "a red fox", body.Prompt)
	assert.Equal(t, catalog.ModelRecraftV3, body.Model)
	assert.Equal(t, "1024x1024", body.Size)
	assert.Equal(t, 1, body.N)
	assert.Equal(t, catalog.ResponseFormatURL, body.ResponseFormat)
	assert.Equal(t, catalog.StyleRealisticImage, body.Style)
	assert.Nil(t, body.Controls)

	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(encoded, &payload))
	assert.NotContains(t, payload, "controls")
	assert.NotContains(t, payload, "style_id")
	assert.NotContains(t, payload, "substyle")
	assert.NotContains(t, payload, "negative_prompt")
	assert.NotContains(t, payload, "text_layout")
}

func TestBuilder_Generate_StyleSelection(t *testing.T) {
	testCases := []struct {
		name          string
		params        models.ParameterSet
		expectedStyle string
		expectedSub   string
		expectedID    string
		errorField    string
	}{
		{
			name:          "style and substyle",
			params:        models.ParameterSet{ParamStyle: "digital_illustration", ParamSubstyle: "pixel_art"},
			expectedStyle: "digital_illustration",
			expectedSub:   "pixel_art",
		},
		{
			name:       "custom style id wins",
			params:     models.ParameterSet{ParamStyle: "digital_illustration", ParamSubstyle: "pixel_art", ParamStyleID: " abc-123 "},
			expectedID: "abc-123",
		},
		{
			name:          "blank style id is ignored",
			params:        models.ParameterSet{ParamStyleID: "  "},
			expectedStyle: catalog.StyleRealisticImage,
		},
		{
			name:       "style not available for model",
			params:     models.ParameterSet{ParamModel: catalog.ModelRecraftV2, ParamStyle: catalog.StyleLogoRaster},
			errorField: ParamStyle,
		},
		{
			name:       "substyle of another style",
			params:     models.ParameterSet{ParamStyle: "realistic_image", ParamSubstyle: "pixel_art"},
			errorField: ParamSubstyle,
		},
		{
			name:       "logo substyle is v3 only",
			params:     models.ParameterSet{ParamModel: catalog.ModelRecraftV2, ParamStyle: "icon", ParamSubstyle: "emblem_stamp"},
			errorField: ParamSubstyle,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			params := models.ParameterSet{ParamPrompt: "a cat"}
			for k, v := range tc.params {
				params[k] = v
			}

			d, err := newTestBuilder(newStore(t)).Build(context.Background(), 0, item(models.OpGenerate, params))

			if tc.errorField != "" {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))

				var nodeErr *NodeError
				require.ErrorAs(t, err, &nodeErr)
				assert.Equal(t, tc.errorField, nodeErr.Field)

				return
			}

			require.NoError(t, err)

			body := d.JSONBody.(*models.GenerationBody)
			assert.Equal(t, tc.expectedStyle, body.Style)
			assert.Equal(t, tc.expectedSub, body.Substyle)
			assert.Equal(t, tc.expectedID, body.StyleID)
		})
	}
}

func TestBuilder_Generate_Validation(t *testing.T) {
	testCases := []struct {
		name  string
		param models.ParameterSet
		field string
	}{
		{"missing prompt", models.ParameterSet{}, ParamPrompt},
		{"blank prompt", models.ParameterSet{ParamPrompt: "   "}, ParamPrompt},
		{"prompt of wrong type", models.ParameterSet{ParamPrompt: 12}, ParamPrompt},
		{"prompt too long", models.ParameterSet{ParamPrompt: strings.Repeat("a", 1001)}, ParamPrompt},
		{"negative prompt too long", models.ParameterSet{ParamPrompt: "ok", ParamNegativePrompt: strings.Repeat("b", 1001)}, ParamNegativePrompt},
		{"unknown model", models.ParameterSet{ParamPrompt: "ok", ParamModel: "recraftv9"}, ParamModel},
		{"unknown size", models.ParameterSet{ParamPrompt: "ok", ParamSize: "10x10"}, ParamSize},
		{"too many images", models.ParameterSet{ParamPrompt: "ok", ParamNumberOfImages: 7}, ParamNumberOfImages},
		{"zero images", models.ParameterSet{ParamPrompt: "ok", ParamNumberOfImages: 0}, ParamNumberOfImages},
		{"fractional count", models.ParameterSet{ParamPrompt: "ok", ParamNumberOfImages: 1.5}, ParamNumberOfImages},
		{"unknown response format", models.ParameterSet{ParamPrompt: "ok", ParamResponseFormat: "svg"}, ParamResponseFormat},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestBuilder(newStore(t)).Build(context.Background(), 4, item(models.OpGenerate, tc.param))
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, 4, ItemIndex(err))

			var nodeErr *NodeError
			require.ErrorAs(t, err, &nodeErr)
			assert.Equal(t, tc.field, nodeErr.Field)
		})
	}
}

func TestBuilder_Generate_ImageCountBounds(t *testing.T) {
	b := newTestBuilder(newStore(t))

	d, err := b.Build(context.Background(), 0, item(models.OpGenerate, models.ParameterSet{
		ParamPrompt: "ok", ParamNumberOfImages: catalog.MaxImageCount,
	}))
	require.NoError(t, err)
	assert.Equal(t, catalog.MaxImageCount, d.JSONBody.(*models.GenerationBody).N)

	_, err = b.Build(context.Background(), 0, item(models.OpGenerate, models.ParameterSet{
		ParamPrompt: "ok", ParamNumberOfImages: catalog.MaxImageCount + 1,
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be at most 6, got 7")

	_, err = b.Build(context.Background(), 0, item(models.OpGenerate, models.ParameterSet{
		ParamPrompt: "ok", ParamNumberOfImages: catalog.MinImageCount - 1,
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be at least 1, got 0")
}

func TestBuilder_Generate_RejectsIntegersOutOfRange(t *testing.T) {
	for _, n := range []float64{1e19, -1e19, math.MaxInt32 + 1} {
		_, err := newTestBuilder(newStore(t)).Build(context.Background(), 0, item(models.OpGenerate, models.ParameterSet{
			ParamPrompt: "ok", ParamNumberOfImages: n,
		}))
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "numberOfImages: must be an integer")
	}
}

func TestBuilder_Generate_PromptCeilingCountsBytes(t *testing.T) {
	b := newTestBuilder(newStore(t))

	// 500 two-byte runes are exactly at the ceiling.
	_, err := b.Build(context.Background(), 0, item(models.OpGenerate, models.ParameterSet{
		ParamPrompt: strings.Repeat("é", 500),
	}))
	require.NoError(t, err)

	_, err = b.Build(context.Background(), 0, item(models.OpGenerate, models.ParameterSet{
		ParamPrompt: strings.Repeat("é", 501),
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1002 bytes")
}

func TestBuilder_Generate_NegativePromptIsTrimmed(t *testing.T) {
	d, err := newTestBuilder(newStore(t)).Build(context.Background(), 0, item(models.OpGenerate, models.ParameterSet{
		ParamPrompt:         "a cat",
		ParamNegativePrompt: "  blurry  ",
	}))
	require.NoError(t, err)
	assert.Equal(t, "blurry", d.JSONBody.(*models.GenerationBody).NegativePrompt)
}

func TestBuilder_UnsupportedOperation(t *testing.T) {
	_, err := newTestBuilder(newStore(t)).Build(context.Background(), 1, item(models.Operation{Resource: "image", Action: "explode"}, nil))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
	assert.Equal(t, 1, ItemIndex(err))
}

func TestBuilder_MalformedOperation(t *testing.T) {
	_, err := newTestBuilder(newStore(t)).Build(context.Background(), 2, item(models.ParseOperationLenient("generate"), nil))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
	assert.ErrorIs(t, err, models.ErrMalformedOperation)
	assert.Equal(t, 2, ItemIndex(err))
	assert.Contains(t, err.Error(), `malformed operation "generate"`)
}

func TestBuilder_MissingToken(t *testing.T) {
	b := NewBuilder(DefaultConfig(), "", NewResolver(newStore(t), 0))

	_, err := b.Build(context.Background(), 0, item(models.OpGetUserInfo, nil))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestBuilder_GetUserInfo(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 5 * time.Second

	d, err := NewBuilder(cfg, "tok", nil).Build(context.Background(), 0, item(models.OpGetUserInfo, nil))
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, d.Method)
	assert.Equal(t, PathUserInfo, d.Path)
	assert.True(t, d.IsRead())
	assert.Equal(t, 5*time.Second, d.Timeout)
	assert.Equal(t, "Bearer tok", d.Headers["Authorization"])
}

func TestBuilder_ImageToImage(t *testing.T) {
	d, err := newTestBuilder(newStore(t)).Build(context.Background(), 0, item(models.OpImageToImage, models.ParameterSet{
		ParamPrompt:         "make it winter",
		ParamStrength:       0.25,
		ParamNumberOfImages: 2,
		ParamNegativePrompt: " people ",
	}))
	require.NoError(t, err)

	assert.Equal(t, PathImageToImage, d.Path)
	assert.True(t, d.IsMultipart())
	assert.Equal(t, []models.FormField{
		{Name: "prompt", Value: "make it winter"},
		{Name: "strength", Value: "0.25"},
		{Name: "style", Value: catalog.StyleAny},
		{Name: "n", Value: "2"},
		{Name: "response_format", Value: catalog.ResponseFormatURL},
		{Name: "negative_prompt", Value: "people"},
	}, d.Form)

	image, ok := d.File(PartImage)
	require.True(t, ok)
	assert.Equal(t, "input.png", image.FileName)
	assert.Equal(t, "image/png", image.ContentType)
	assert.Equal(t, pngData(), image.Data)

	_, ok = d.File(PartMask)
	assert.False(t, ok)
}

func TestBuilder_ImageToImage_StrengthRange(t *testing.T) {
	_, err := newTestBuilder(newStore(t)).Build(context.Background(), 0, item(models.OpImageToImage, models.ParameterSet{
		ParamPrompt:   "x",
		ParamStrength: 1.5,
	}))
	require.Error(t, err)

	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, ParamStrength, nodeErr.Field)
}

func TestBuilder_Inpaint(t *testing.T) {
	d, err := newTestBuilder(newStore(t)).Build(context.Background(), 0, item(models.OpInpaint, models.ParameterSet{
		ParamPrompt:         "a hat",
		ParamTransformStyle: catalog.StyleDigitalIllustration,
	}))
	require.NoError(t, err)

	assert.Equal(t, PathInpaint, d.Path)

	_, hasStrength := d.Field("strength")
	assert.False(t, hasStrength)

	style, _ := d.Field("style")
	assert.Equal(t, catalog.StyleDigitalIllustration, style)

	mask, ok := d.File(PartMask)
	require.True(t, ok)
	assert.Equal(t, "mask.png", mask.FileName)
	assert.Equal(t, "image/png", mask.ContentType)
}

func TestBuilder_Inpaint_MissingMask(t *testing.T) {
	store := binstore.NewMemory()
	store.Put(0, "data", pngData(), "", "")

	_, err := newTestBuilder(store).Build(context.Background(), 0, item(models.OpInpaint, models.ParameterSet{
		ParamPrompt: "a hat",
	}))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), `no binary data found in property "mask"`)
}

func TestBuilder_ReplaceBackground(t *testing.T) {
	d, err := newTestBuilder(newStore(t)).Build(context.Background(), 0, item(models.OpReplaceBackground, models.ParameterSet{
		ParamPrompt: "a beach",
	}))
	require.NoError(t, err)

	assert.Equal(t, PathReplaceBackground, d.Path)
	assert.Len(t, d.Files, 1)

	_, hasStrength := d.Field("strength")
	assert.False(t, hasStrength)
}

func TestBuilder_AssetTransforms(t *testing.T) {
	ops := map[models.Operation]string{
		models.OpRemoveBackground: PathRemoveBackground,
		models.OpVectorize:        PathVectorize,
		models.OpCrispUpscale:     PathCrispUpscale,
		models.OpCreativeUpscale:  PathCreativeUpscale,
	}

	for op, path := range ops {
		t.Run(op.String(), func(t *testing.T) {
			d, err := newTestBuilder(newStore(t)).Build(context.Background(), 0, item(op, models.ParameterSet{
				ParamResponseFormat: catalog.ResponseFormatB64JSON,
			}))
			require.NoError(t, err)

			assert.Equal(t, path, d.Path)
			assert.Equal(t, []models.FormField{{Name: "response_format", Value: catalog.ResponseFormatB64JSON}}, d.Form)
			require.Len(t, d.Files, 1)
			assert.Equal(t, PartFile, d.Files[0].Name)
		})
	}
}

func TestBuilder_AssetTransform_CustomProperty(t *testing.T) {
	store := newStore(t)
	store.Put(0, "photo", pngData(), "", "")

	d, err := newTestBuilder(store).Build(context.Background(), 0, item(models.OpVectorize, models.ParameterSet{
		ParamInputImage: "photo",
	}))
	require.NoError(t, err)
	assert.Equal(t, "image.png", d.Files[0].FileName)
}

func TestBuilder_CreateStyle(t *testing.T) {
	store := binstore.NewMemory()
	store.Put(0, "a", pngData(), "first.png", "")
	store.Put(0, "b", pngData(), "", "")

	d, err := newTestBuilder(store).Build(context.Background(), 0, item(models.OpCreateStyle, models.ParameterSet{
		ParamBaseStyle:       catalog.StyleVectorIllustration,
		ParamReferenceImages: " a, ,b ",
	}))
	require.NoError(t, err)

	assert.Equal(t, PathStyles, d.Path)
	assert.Equal(t, []models.FormField{{Name: "style", Value: catalog.StyleVectorIllustration}}, d.Form)
	require.Len(t, d.Files, 2)
	assert.Equal(t, "file1", d.Files[0].Name)
	assert.Equal(t, "first.png", d.Files[0].FileName)
	assert.Equal(t, "file2", d.Files[1].Name)
	assert.Equal(t, "image2.png", d.Files[1].FileName)
}

func TestBuilder_CreateStyle_Limits(t *testing.T) {
	testCases := []struct {
		name       string
		references any
		field      string
	}{
		{"no references", " , ", ParamReferenceImages},
		{"too many references", []any{"a", "a", "a", "a", "a", "a"}, ParamReferenceImages},
		{"non-string reference", []any{"a", 3}, ParamReferenceImages + "[1]"},
		{"unknown base style", nil, ParamBaseStyle},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := binstore.NewMemory()
			store.Put(0, "a", pngData(), "", "")

			params := models.ParameterSet{ParamReferenceImages: tc.references}
			if tc.field == ParamBaseStyle {
				params = models.ParameterSet{ParamBaseStyle: "logo_raster", ParamReferenceImages: "a"}
			}

			_, err := newTestBuilder(store).Build(context.Background(), 0, item(models.OpCreateStyle, params))
			require.Error(t, err)

			var nodeErr *NodeError
			require.ErrorAs(t, err, &nodeErr)
			assert.Equal(t, ErrValidation, nodeErr.Kind)
			assert.Equal(t, tc.field, nodeErr.Field)
		})
	}
}

func TestBuilder_CreateStyle_TotalSize(t *testing.T) {
	store := binstore.NewMemory()
	store.Put(0, "a", pngOfSize(15), "", "")
	store.Put(0, "b", pngOfSize(15), "", "")

	cfg := DefaultConfig()
	cfg.MaxBinaryBytes = 20

	b := NewBuilder(cfg, "tok", NewResolver(store, cfg.MaxBinaryBytes))

	_, err := b.Build(context.Background(), 0, item(models.OpCreateStyle, models.ParameterSet{
		ParamReferenceImages: []string{"a", "b"},
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBinaryTooLarge)
}
