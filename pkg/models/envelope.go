package models

import "time"

// ResultEnvelope is the outcome of one record. Exactly one is produced per input record.
type ResultEnvelope struct {
	Data        any    `json:"data,omitempty"`
	Error       string `json:"error,omitempty"`
	StatusCode  int    `json:"statusCode,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	SourceIndex int    `json:"sourceIndex"`
}

// NewSuccessEnvelope wraps the remote response unchanged.
func NewSuccessEnvelope(index int, data any) ResultEnvelope {
	return ResultEnvelope{
		Data:        data,
		SourceIndex: index,
	}
}

// NewErrorEnvelope records a failed record. A zero status code means it is unknown.
func NewErrorEnvelope(index int, message string, statusCode int, at time.Time) ResultEnvelope {
	return ResultEnvelope{
		Error:       message,
		StatusCode:  statusCode,
		Timestamp:   at.UTC().Format(time.RFC3339),
		SourceIndex: index,
	}
}

// IsError reports whether the envelope describes a failure.
func (e ResultEnvelope) IsError() bool {
	return e.Error != ""
}
