package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const ErrorKindKey = "error.type"

// SetError marks the span failed. A nil error is ignored.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("error_occurred", trace.WithAttributes(attrs...))
}

// SetErrorKind marks the span failed and tags it with a classification such as "validation".
func SetErrorKind(span trace.Span, err error, kind string) {
	SetError(span, err, attribute.String(ErrorKindKey, kind))
	span.SetAttributes(attribute.String(ErrorKindKey, kind))
}
