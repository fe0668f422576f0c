package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var GlobalTracer = otel.Tracer("wodcycle-backend")
var GlobalJobTracer = otel.Tracer("wodcycle-generation-job")

// EndSpan records err on the span, if any, and ends it.
// Meant to be deferred with a named error result.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
