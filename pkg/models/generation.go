package models

// GenerationBody is the JSON payload of POST /images/generations.
type GenerationBody struct {
	Prompt         string        `json:"prompt"`
	Model          string        `json:"model"`
	Size           string        `json:"size"`
	N              int           `json:"n"`
	ResponseFormat string        `json:"response_format"`
	NegativePrompt string        `json:"negative_prompt,omitempty"`
	StyleID        string        `json:"style_id,omitempty"`
	Style          string        `json:"style,omitempty"`
	Substyle       string        `json:"substyle,omitempty"`
	Controls       *Controls     `json:"controls,omitempty"`
	TextLayout     []TextElement `json:"text_layout,omitempty"`
}

// Controls tunes generation. Nil members are left out of the payload.
type Controls struct {
	ArtisticLevel   *int    `json:"artistic_level,omitempty"`
	BackgroundColor *Color  `json:"background_color,omitempty"`
	NoText          *bool   `json:"no_text,omitempty"`
	Colors          []Color `json:"colors,omitempty"`
}

// IsEmpty reports whether no control is set.
func (c *Controls) IsEmpty() bool {
	return c == nil || (c.ArtisticLevel == nil && c.BackgroundColor == nil && c.NoText == nil && len(c.Colors) == 0)
}

// Color is an RGB triple, each component in [0,255].
type Color struct {
	RGB [3]int `json:"rgb"`
}

// Point is a normalized [x, y] coordinate.
type Point [2]float64

// TextElement places a single word inside a quadrilateral given as four normalized points.
type TextElement struct {
	Text string   `json:"text"`
	BBox [4]Point `json:"bbox"`
}
