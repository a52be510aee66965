package models

// ParameterSet maps logical field names to the values supplied for one record.
type ParameterSet map[string]any

// Item is one input record: the operation to run and its parameters.
type Item struct {
	Operation Operation    `json:"operation" yaml:"operation" validate:"required"`
	Params    ParameterSet `json:"params"    yaml:"params"`
}

// BinaryAsset is raw bytes borrowed from the host's per-record binary store.
type BinaryAsset struct {
	Property string `json:"property"`
	Data     []byte `json:"-"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// Size returns the payload length in bytes.
func (a *BinaryAsset) Size() int {
	return len(a.Data)
}
