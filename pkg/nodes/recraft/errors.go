package recraft

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by the node matches exactly one of them with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrTransport     = errors.New("transport error")
	ErrRemoteAPI     = errors.New("recraft api error")
)

// Specific causes.
var (
	ErrMissingCredential    = errors.New("no API token found, configure the Recraft API credentials")
	ErrInvalidCredential    = errors.New("invalid API token, check the Recraft API credentials")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrInvalidConfig        = errors.New("invalid node configuration")
	ErrBinaryTooLarge       = errors.New("binary data exceeds limits")
	ErrUnsupportedMediaType = errors.New("unsupported file type")
	ErrConnectionRefused    = errors.New("could not connect to Recraft API")
	ErrTimeout              = errors.New("request to Recraft API timed out")
)

// noItem marks errors that are not tied to a record.
const noItem = -1

// NodeError carries enough context to pinpoint the failing record.
type NodeError struct {
	Kind       error  // One of ErrConfiguration, ErrValidation, ErrTransport, ErrRemoteAPI
	ItemIndex  int    // Record index, -1 when the error is not tied to a record
	Field      string // Offending parameter, if any
	StatusCode int    // Upstream HTTP status, 0 when unknown
	Message    string // Human-readable message
	Err        error  // Underlying error
}

func (e *NodeError) Error() string {
	var b strings.Builder

	if e.ItemIndex >= 0 {
		fmt.Fprintf(&b, "item %d: ", e.ItemIndex)
	}

	if e.Field != "" {
		fmt.Fprintf(&b, "%s: ", e.Field)
	}

	b.WriteString(e.Description())

	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}

	return b.String()
}

// Description returns the message without record or field context.
func (e *NodeError) Description() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.Error()
	}
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// Is matches the error kind in addition to the wrapped cause.
func (e *NodeError) Is(target error) bool {
	return target == e.Kind
}

func validationError(index int, field, format string, args ...any) *NodeError {
	return &NodeError{
		Kind:      ErrValidation,
		ItemIndex: index,
		Field:     field,
		Message:   fmt.Sprintf(format, args...),
	}
}

func wrapValidation(index int, field string, err error, format string, args ...any) *NodeError {
	e := validationError(index, field, format, args...)
	e.Err = err

	return e
}

func configurationError(index int, err error, message string) *NodeError {
	return &NodeError{
		Kind:      ErrConfiguration,
		ItemIndex: index,
		Message:   message,
		Err:       err,
	}
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsTransportError reports whether err is a TransportError.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsRemoteAPIError reports whether err was returned by the Recraft API.
func IsRemoteAPIError(err error) bool {
	return errors.Is(err, ErrRemoteAPI)
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var nodeErr *NodeError
	if errors.As(err, &nodeErr) {
		return nodeErr.StatusCode
	}

	return 0
}

// ItemIndex returns the record index carried by err, or -1.
func ItemIndex(err error) int {
	var nodeErr *NodeError
	if errors.As(err, &nodeErr) {
		return nodeErr.ItemIndex
	}

	return noItem
}

// describe returns the message used in error envelopes.
func describe(err error) string {
	var nodeErr *NodeError
	if errors.As(err, &nodeErr) {
		if nodeErr.Field != "" {
			return nodeErr.Field + ": " + nodeErr.Description()
		}

		return nodeErr.Description()
	}

	return err.Error()
}
