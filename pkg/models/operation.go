// Package models defines the data carried between the host, the Recraft node and the remote API.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Resources exposed by the Recraft node.
const (
	ResourceImage = "image"
	ResourceStyle = "style"
	ResourceUser  = "user"
)

// ErrMalformedOperation is returned when an operation is not written as "resource.action".
var ErrMalformedOperation = errors.New("operation must be written as resource.action")

// Operation selects one request-building path by its (resource, action) pair.
type Operation struct {
	Resource string `json:"resource" validate:"required"`
	Action   string `json:"action"   validate:"required"`
}

// Supported operations.
var (
	OpGenerate          = Operation{Resource: ResourceImage, Action: "generate"}
	OpImageToImage      = Operation{Resource: ResourceImage, Action: "imageToImage"}
	OpInpaint           = Operation{Resource: ResourceImage, Action: "inpaint"}
	OpReplaceBackground = Operation{Resource: ResourceImage, Action: "replaceBackground"}
	OpRemoveBackground  = Operation{Resource: ResourceImage, Action: "removeBackground"}
	OpVectorize         = Operation{Resource: ResourceImage, Action: "vectorize"}
	OpCrispUpscale      = Operation{Resource: ResourceImage, Action: "crispUpscale"}
	OpCreativeUpscale   = Operation{Resource: ResourceImage, Action: "creativeUpscale"}
	OpCreateStyle       = Operation{Resource: ResourceStyle, Action: "create"}
	OpGetUserInfo       = Operation{Resource: ResourceUser, Action: "getInfo"}
)

var supportedOperations = []Operation{
	OpGenerate,
	OpImageToImage,
	OpInpaint,
	OpReplaceBackground,
	OpRemoveBackground,
	OpVectorize,
	OpCrispUpscale,
	OpCreativeUpscale,
	OpCreateStyle,
	OpGetUserInfo,
}

// Operations returns every supported operation in declaration order.
func Operations() []Operation {
	ops := make([]Operation, len(supportedOperations))
	copy(ops, supportedOperations)

	return ops
}

// ParseOperation parses the "resource.action" form. It does not check support.
func ParseOperation(s string) (Operation, error) {
	resource, action, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || resource == "" || action == "" {
		return Operation{}, fmt.Errorf("%w: %q", ErrMalformedOperation, s)
	}

	return Operation{Resource: resource, Action: action}, nil
}

// ParseOperationLenient parses like ParseOperation but never fails. Malformed text is kept whole in
// Action with an empty Resource, so only its own record fails when it is built.
func ParseOperationLenient(s string) Operation {
	op, err := ParseOperation(s)
	if err != nil {
		return Operation{Action: strings.TrimSpace(s)}
	}

	return op
}

func (o Operation) String() string {
	return o.Resource + "." + o.Action
}

// IsSupported reports whether the pair is one of the known operations.
func (o Operation) IsSupported() bool {
	for _, op := range supportedOperations {
		if op == o {
			return true
		}
	}

	return false
}

// IsMalformed reports whether the resource or the action is missing.
func (o Operation) IsMalformed() bool {
	return o.Resource == "" || o.Action == ""
}

// MarshalText writes the operation as "resource.action".
func (o Operation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText accepts the "resource.action" form.
func (o *Operation) UnmarshalText(text []byte) error {
	op, err := ParseOperation(string(text))
	if err != nil {
		return err
	}

	*o = op

	return nil
}
