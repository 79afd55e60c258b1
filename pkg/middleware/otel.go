package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shadowtree-dev/shadowtree/pkg/dom"
	"github.com/shadowtree-dev/shadowtree/pkg/shadow"
)

// Default tracer name for shadowtree.
const defaultTracerName = "shadowtree"

// OTelConfig configures the OpenTelemetry patcher decorator.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "shadowtree").
	TracerName string

	// Attributes are added to every reconciliation span.
	Attributes []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry patcher decorator.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithAttributes adds constant attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// OpenTelemetry returns a decorator that opens one span per
// reconciliation, named "shadowtree.reconcile", tagged with the live
// node's tag and connectivity, recording the patcher error if any.
//
// The tracer comes from the global tracer provider; configure that in
// main() with otel.SetTracerProvider before frames start.
func OpenTelemetry(opts ...OTelOption) func(shadow.Patcher) shadow.Patcher {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return func(next shadow.Patcher) shadow.Patcher {
		return shadow.PatcherFunc(func(live, target *dom.Node) error {
			attrs := []attribute.KeyValue{
				attribute.String("shadowtree.live_tag", live.Tag()),
				attribute.String("shadowtree.live_kind", live.Kind().String()),
				attribute.Bool("shadowtree.live_connected", live.IsConnected()),
			}
			attrs = append(attrs, config.Attributes...)

			_, span := config.tracer.Start(
				context.Background(),
				"shadowtree.reconcile",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			err := next.Apply(live, target)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return err
		})
	}
}
