package models

import (
	"net/http"
	"time"
)

// FormField is a textual multipart field.
type FormField struct {
	Name  string
	Value string
}

// FilePart is a binary multipart field.
type FilePart struct {
	Name        string
	FileName    string
	ContentType string
	Data        []byte
}

// RequestDescriptor is a fully composed request ready for dispatch. One is built per record and
// never modified afterwards.
type RequestDescriptor struct {
	Operation Operation
	Method    string
	Path      string
	Query     map[string]string
	Headers   map[string]string
	// JSONBody is encoded as application/json when set. It is mutually exclusive with Form/Files.
	JSONBody any
	Form     []FormField
	Files    []FilePart
	Timeout  time.Duration
}

// IsMultipart reports whether the request carries a multipart/form-data payload.
func (d *RequestDescriptor) IsMultipart() bool {
	return len(d.Files) > 0
}

// HasBody reports whether any payload is attached.
func (d *RequestDescriptor) HasBody() bool {
	return d.JSONBody != nil || len(d.Form) > 0 || len(d.Files) > 0
}

// Field returns the value of the named form field.
func (d *RequestDescriptor) Field(name string) (string, bool) {
	for _, f := range d.Form {
		if f.Name == name {
			return f.Value, true
		}
	}

	return "", false
}

// File returns the named file part.
func (d *RequestDescriptor) File(name string) (FilePart, bool) {
	for _, f := range d.Files {
		if f.Name == name {
			return f, true
		}
	}

	return FilePart{}, false
}

// IsRead reports whether the request is a body-less read.
func (d *RequestDescriptor) IsRead() bool {
	return d.Method == http.MethodGet && !d.HasBody()
}
