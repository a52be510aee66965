package protocol

import "errors"

// ErrBinaryNotFound is returned by a BinaryStore when the record has no such binary property.
var ErrBinaryNotFound = errors.New("no binary data exists for property")
