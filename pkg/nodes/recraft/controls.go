package recraft

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/dukex/operion-recraft/pkg/catalog"
	"github.com/dukex/operion-recraft/pkg/models"
)

const (
	colorsFormat     = `[{"rgb": [255, 0, 0]}, {"rgb": [0, 255, 0]}]`
	backgroundFormat = `[255, 255, 255]`
	bboxFormat       = `[[x1,y1], [x2,y2], [x3,y3], [x4,y4]]`
)

// readControls assembles the controls object and the text layout from advancedOptions.
// Controls is nil when none of its members is present.
func readControls(r paramReader, model string) (*models.Controls, []models.TextElement, error) {
	opts, ok, err := r.nested(ParamAdvancedOptions)
	if err != nil || !ok {
		return nil, nil, err
	}

	controls := &models.Controls{}

	if controls.Colors, err = readColors(opts); err != nil {
		return nil, nil, err
	}

	if controls.BackgroundColor, err = readBackgroundColor(opts); err != nil {
		return nil, nil, err
	}

	level, err := opts.optionalInt(OptionArtisticLevel)
	if err != nil {
		return nil, nil, err
	}

	if err := validateParams(opts.index, opts.prefix, advancedOptions{ArtisticLevel: level}); err != nil {
		return nil, nil, err
	}

	controls.ArtisticLevel = level

	if controls.NoText, err = opts.optionalBool(OptionNoText); err != nil {
		return nil, nil, err
	}

	layout, err := readTextLayout(opts, model)
	if err != nil {
		return nil, nil, err
	}

	if controls.IsEmpty() {
		controls = nil
	}

	return controls, layout, nil
}

func readColors(r paramReader) ([]models.Color, error) {
	v, ok := r.lookup(OptionColors)
	if !ok {
		return nil, nil
	}

	field := r.field(OptionColors)

	list, err := decodeList(v)
	if err != nil {
		return nil, wrapValidation(r.index, field, err, "invalid JSON, expected format: %s", colorsFormat)
	}

	if list == nil {
		return nil, nil
	}

	colors := make([]models.Color, 0, len(list))

	for i, entry := range list {
		m, ok := asMap(entry)
		if !ok {
			return nil, validationError(r.index, fmt.Sprintf("%s[%d]", field, i), "expected an object with an rgb array, format: %s", colorsFormat)
		}

		rgb, err := toRGB(m["rgb"])
		if err != nil {
			return nil, wrapValidation(r.index, fmt.Sprintf("%s[%d].rgb", field, i), err, "%v", err)
		}

		colors = append(colors, models.Color{RGB: rgb})
	}

	return colors, nil
}

func readBackgroundColor(r paramReader) (*models.Color, error) {
	v, ok := r.lookup(OptionBackgroundColor)
	if !ok {
		return nil, nil
	}

	field := r.field(OptionBackgroundColor)

	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, nil
	}

	list, err := decodeList(v)
	if err != nil {
		return nil, wrapValidation(r.index, field, err, "invalid format, expected: %s", backgroundFormat)
	}

	rgb, err := toRGB(list)
	if err != nil {
		return nil, wrapValidation(r.index, field, err, "%v, expected: %s", err, backgroundFormat)
	}

	return &models.Color{RGB: rgb}, nil
}

func readTextLayout(r paramReader, model string) ([]models.TextElement, error) {
	v, ok := r.lookup(OptionTextLayout)
	if !ok {
		return nil, nil
	}

	field := r.field(OptionTextLayout)

	// The fixed-collection shape {textElement: [...]} is accepted as well as a bare list.
	if m, isMap := asMap(v); isMap {
		v = m["textElement"]
	}

	list, err := decodeList(v)
	if err != nil {
		return nil, wrapValidation(r.index, field, err, "must be a list of {text, bbox} entries")
	}

	if len(list) == 0 {
		return nil, nil
	}

	if model != catalog.ModelRecraftV3 {
		return nil, validationError(r.index, field, "text layout is only supported by recraftv3, got model %q", model)
	}

	layout := make([]models.TextElement, 0, len(list))

	for i, entry := range list {
		entryField := fmt.Sprintf("%s[%d]", field, i)

		m, ok := asMap(entry)
		if !ok {
			return nil, validationError(r.index, entryField, "expected an object with text and bbox")
		}

		text, ok := m["text"].(string)
		if !ok || strings.TrimSpace(text) == "" {
			return nil, validationError(r.index, entryField+".text", "is required")
		}

		bbox, err := toBBox(m["bbox"])
		if err != nil {
			return nil, wrapValidation(r.index, entryField+".bbox", err,
				"invalid bounding box (%v), expected format: %s with coordinates between 0 and 1", err, bboxFormat)
		}

		layout = append(layout, models.TextElement{Text: text, BBox: bbox})
	}

	return layout, nil
}

// decodeList accepts a JSON-encoded string or an already decoded list. A nil value or an empty
// string yields a nil list.
func decodeList(v any) ([]any, error) {
	switch value := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(value) == "" {
			return nil, nil
		}

		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			return nil, err
		}

		list, ok := decoded.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a JSON array, got %T", decoded)
		}

		return list, nil
	case []any:
		return value, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}

	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}

	return list, nil
}

func toRGB(v any) ([3]int, error) {
	var rgb [3]int

	list, err := decodeList(v)
	if err != nil {
		return rgb, err
	}

	if len(list) != 3 {
		return rgb, fmt.Errorf("rgb must have 3 components, got %d", len(list))
	}

	for i, c := range list {
		f, ok := number(c)
		if !ok || f != float64(int(f)) || f < 0 || f > 255 {
			return rgb, fmt.Errorf("rgb component %d must be an integer between 0 and 255, got %v", i, c)
		}

		rgb[i] = int(f)
	}

	return rgb, nil
}

func toBBox(v any) ([4]models.Point, error) {
	var bbox [4]models.Point

	list, err := decodeList(v)
	if err != nil {
		return bbox, err
	}

	if len(list) != len(bbox) {
		return bbox, fmt.Errorf("expected 4 points, got %d", len(list))
	}

	for i, raw := range list {
		point, err := decodeList(raw)
		if err != nil {
			return bbox, fmt.Errorf("point %d: %w", i, err)
		}

		if len(point) != 2 {
			return bbox, fmt.Errorf("point %d must have 2 coordinates, got %d", i, len(point))
		}

		for j, c := range point {
			f, ok := number(c)
			if !ok || f < 0 || f > 1 {
				return bbox, fmt.Errorf("point %d coordinate %d must be a number between 0 and 1, got %v", i, j, c)
			}

			bbox[i][j] = f
		}
	}

	return bbox, nil
}
