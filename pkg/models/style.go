package models

// StyleSelector is either StyleByID or StyleByName.
type StyleSelector interface {
	applyTo(body *GenerationBody)
}

// StyleByID selects a custom style created with style.create.
type StyleByID struct {
	ID string
}

// StyleByName selects a predefined style and an optional substyle.
type StyleByName struct {
	Style    string
	Substyle string
}

func (s StyleByID) applyTo(body *GenerationBody) {
	body.StyleID = s.ID
	body.Style = ""
	body.Substyle = ""
}

func (s StyleByName) applyTo(body *GenerationBody) {
	body.StyleID = ""
	body.Style = s.Style
	body.Substyle = s.Substyle
}

// ApplyStyle writes the selector into the generation payload.
func (b *GenerationBody) ApplyStyle(s StyleSelector) {
	if s == nil {
		return
	}

	s.applyTo(b)
}
