package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrVerb        = "document.verb"
	AttrCommandID   = "command.id"
	AttrCommandType = "command.type"
	AttrNodeID      = "node.id"
	AttrWidget      = "widget.qualified_name"
	AttrLinkID      = "link.id"
	AttrCount       = "items.count"
	AttrPath        = "document.path"
)

// Span name prefix for document verbs.
const SpanPrefixVerb = "document."

// Event names.
const (
	EventCommandPushed = "command.pushed"
	EventRejected      = "command.rejected"
)

// StartVerb opens a span for a document verb.
func StartVerb(ctx context.Context, tracer trace.Tracer, verb string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, SpanPrefixVerb+verb, trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(append([]attribute.KeyValue{attribute.String(AttrVerb, verb)}, attrs...)...)
	return ctx, span
}

// End records err on span and ends it. It returns err so verbs can
// `return tracing.End(span, err)`.
func End(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
	return err
}

// SpanContextCarrier is implemented by commands that remember the span they
// were pushed under.
type SpanContextCarrier interface {
	SetSpanContext(trace.SpanContext)
}

// Stamp copies the span context of ctx onto c and records the push.
func Stamp(ctx context.Context, c SpanContextCarrier, id, cmdType string) {
	span := trace.SpanFromContext(ctx)
	c.SetSpanContext(span.SpanContext())
	span.AddEvent(EventCommandPushed, trace.WithAttributes(
		attribute.String(AttrCommandID, id),
		attribute.String(AttrCommandType, cmdType),
	))
}
