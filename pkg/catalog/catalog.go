// Package catalog holds the static option tables of the Recraft API. The tables only answer
// membership questions; they carry no behavior.
package catalog

import "slices"

// Models.
const (
	ModelRecraftV3 = "recraftv3"
	ModelRecraftV2 = "recraftv2"
)

// Styles.
const (
	StyleAny                 = "any"
	StyleRealisticImage      = "realistic_image"
	StyleDigitalIllustration = "digital_illustration"
	StyleVectorIllustration  = "vector_illustration"
	StyleIcon                = "icon"
	StyleLogoRaster          = "logo_raster"
)

// Response formats.
const (
	ResponseFormatURL     = "url"
	ResponseFormatB64JSON = "b64_json"
)

// Defaults applied when a parameter is absent.
const (
	DefaultModel          = ModelRecraftV3
	DefaultStyle          = StyleRealisticImage
	DefaultTransformStyle = StyleAny
	DefaultBaseStyle      = StyleDigitalIllustration
	DefaultSize           = "1024x1024"
	DefaultResponseFormat = ResponseFormatURL
	DefaultImageCount     = 1
	DefaultStrength       = 0.5

	MinImageCount    = 1
	MaxImageCount    = 6
	MinArtisticLevel = 0
	MaxArtisticLevel = 5
	MinReferences    = 1
	MaxReferences    = 5
)

var models = []string{ModelRecraftV3, ModelRecraftV2}

var stylesByModel = map[string][]string{
	ModelRecraftV3: {StyleAny, StyleRealisticImage, StyleDigitalIllustration, StyleVectorIllustration, StyleLogoRaster},
	ModelRecraftV2: {StyleAny, StyleRealisticImage, StyleDigitalIllustration, StyleVectorIllustration, StyleIcon},
}

var substylesByModel = map[string]map[string][]string{
	ModelRecraftV3: {
		StyleRealisticImage: {
			"b_and_w", "enterprise", "evening_light", "faded_nostalgia", "forest_life", "hard_flash",
			"hdr", "motion_blur", "mystic_naturalism", "natural_light", "natural_tones", "organic_calm",
			"real_life_glow", "retro_realism", "retro_snapshot", "studio_portrait", "urban_drama",
			"village_realism", "warm_folk",
		},
		StyleDigitalIllustration: {
			"2d_art_poster", "2d_art_poster_2", "antiquarian", "bold_fantasy", "child_book", "child_books",
			"cover", "crosshatch", "digital_engraving", "engraving_color", "expressionism",
			"freehand_details", "grain", "grain_20", "graphic_intensity", "hand_drawn",
			"hand_drawn_outline", "handmade_3d", "hard_comics", "infantile_sketch", "long_shadow",
			"modern_folk", "multicolor", "neon_calm", "noir", "nostalgic_pastel", "outline_details",
			"pastel_gradient", "pastel_sketch", "pixel_art", "plastic", "pop_art", "pop_renaissance",
			"seamless", "street_art", "tablet_sketch", "urban_glow", "urban_sketching",
			"young_adult_book", "young_adult_book_2",
		},
		StyleVectorIllustration: {
			"bold_stroke", "chemistry", "colored_stencil", "contour_pop_art", "cosmics", "cutout",
			"depressive", "editorial", "emotional_flat", "engraving", "infographical", "line_art",
			"line_circuit", "linocut", "marker_outline", "mosaic", "naivector", "roundish_flat",
			"seamless", "segmented_colors", "sharp_contrast", "thin", "vector_photo", "vivid_shapes",
		},
		StyleLogoRaster: {
			"emblem_graffiti", "emblem_pop_art", "emblem_punk", "emblem_stamp", "emblem_vintage",
		},
	},
	ModelRecraftV2: {
		StyleRealisticImage: {
			"b_and_w", "enterprise", "hard_flash", "hdr", "motion_blur", "natural_light", "studio_portrait",
		},
		StyleDigitalIllustration: {
			"2d_art_poster", "2d_art_poster_2", "3d", "80s", "engraving_color", "glow", "grain",
			"hand_drawn", "hand_drawn_outline", "handmade_3d", "infantile_sketch", "kawaii", "pixel_art",
			"psychedelic", "seamless", "voxel", "watercolor",
		},
		StyleVectorIllustration: {
			"cartoon", "doodle_line_art", "engraving", "flat_2", "kawaii", "line_art", "line_circuit",
			"linocut", "seamless",
		},
		StyleIcon: {
			"broken_line", "colored_outline", "colored_shapes", "colored_shapes_gradient", "doodle_fill",
			"doodle_offset_fill", "offset_fill", "outline", "outline_gradient", "uneven_fill",
		},
	},
}

var sizes = []string{
	"1024x1024", "1365x1024", "1024x1365", "1536x1024", "1024x1536", "1820x1024", "1024x1820",
	"2048x1024", "1024x2048", "1280x1024", "1024x1280", "1434x1024", "1024x1434", "1707x1024",
	"1024x1707",
}

var responseFormats = []string{ResponseFormatURL, ResponseFormatB64JSON}

var transformStyles = []string{StyleAny, StyleRealisticImage, StyleDigitalIllustration, StyleVectorIllustration}

var baseStyles = []string{StyleRealisticImage, StyleDigitalIllustration, StyleVectorIllustration, StyleIcon}

var mimeTypes = []string{"image/png", "image/jpeg", "image/jpg", "image/webp"}

// IsModel reports whether m is a known model.
func IsModel(m string) bool {
	return slices.Contains(models, m)
}

// IsStyle reports whether style is available for the model.
func IsStyle(model, style string) bool {
	return slices.Contains(stylesByModel[model], style)
}

// IsSubstyle reports whether substyle is valid for the (model, style) pair.
func IsSubstyle(model, style, substyle string) bool {
	return slices.Contains(substylesByModel[model][style], substyle)
}

// IsSize reports whether size is one of the supported "WxH" values.
func IsSize(size string) bool {
	return slices.Contains(sizes, size)
}

// IsResponseFormat reports whether f is url or b64_json.
func IsResponseFormat(f string) bool {
	return slices.Contains(responseFormats, f)
}

// IsTransformStyle reports whether style is accepted by the image transformation family.
func IsTransformStyle(style string) bool {
	return slices.Contains(transformStyles, style)
}

// IsBaseStyle reports whether style can seed a custom style.
func IsBaseStyle(style string) bool {
	return slices.Contains(baseStyles, style)
}

// IsMimeType reports whether the media type may be uploaded.
func IsMimeType(mimeType string) bool {
	return slices.Contains(mimeTypes, mimeType)
}

// Models returns the known models.
func Models() []string { return slices.Clone(models) }

// Styles returns the styles for a model.
func Styles(model string) []string { return slices.Clone(stylesByModel[model]) }

// Substyles returns the substyles for a (model, style) pair.
func Substyles(model, style string) []string { return slices.Clone(substylesByModel[model][style]) }

// Sizes returns the supported sizes.
func Sizes() []string { return slices.Clone(sizes) }

// ResponseFormats returns the supported response formats.
func ResponseFormats() []string { return slices.Clone(responseFormats) }

// TransformStyles returns the styles accepted by image transformations.
func TransformStyles() []string { return slices.Clone(transformStyles) }

// BaseStyles returns the styles accepted by style creation.
func BaseStyles() []string { return slices.Clone(baseStyles) }

// MimeTypes returns the upload allow-list.
func MimeTypes() []string { return slices.Clone(mimeTypes) }
