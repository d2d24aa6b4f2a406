// Package tracing wires OpenTelemetry for Orchard. Document verbs run inside
// spans so a session can be replayed from the exported JSONL trace.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/orchard/internal/log"
)

// DefaultServiceName identifies the editor in exported traces.
const DefaultServiceName = "orchard"

// Config configures the tracing subsystem.
type Config struct {
	// Enabled controls whether tracing is active.
	// When false, a no-op tracer is returned.
	Enabled bool

	// Exporter is one of "none", "file", "stdout", "otlp".
	Exporter string

	// FilePath is the JSONL output for the "file" exporter.
	FilePath string

	// OTLPEndpoint defaults to localhost:4317.
	OTLPEndpoint string

	// SampleRate is the sampled fraction of traces; <= 0 means 1.0.
	SampleRate float64

	ServiceName string
}

// DefaultConfig returns tracing disabled with file export preselected.
func DefaultConfig() Config {
	return Config{
		Exporter:     "file",
		OTLPEndpoint: "localhost:4317",
		SampleRate:   1.0,
		ServiceName:  DefaultServiceName,
	}
}

// Provider owns the tracer provider.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	enabled  bool
}

// NewProvider builds a provider from cfg. A disabled config yields a no-op
// tracer.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer("noop")}, nil
	}

	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	switch cfg.Exporter {
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("file_path required for file exporter")
		}
		exporter, err = NewFileExporter(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("create file exporter: %w", err)
		}
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
	case "otlp":
		endpoint := cfg.OTLPEndpoint
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		exporter, err = otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName(cfg)))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate(cfg)))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	return newProvider(sdktrace.NewTracerProvider(opts...), serviceName(cfg)), nil
}

// NewProviderWithExporter builds an enabled provider exporting synchronously
// to exp. Tests pass a tracetest.InMemoryExporter.
func NewProviderWithExporter(exp sdktrace.SpanExporter) *Provider {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	return newProvider(tp, DefaultServiceName)
}

func newProvider(tp *sdktrace.TracerProvider, name string) *Provider {
	otel.SetTracerProvider(tp)
	log.Debug(log.CatTrace, "tracing enabled", "service", name)
	return &Provider{provider: tp, tracer: tp.Tracer(name), enabled: true}
}

func serviceName(cfg Config) string {
	if cfg.ServiceName == "" {
		return DefaultServiceName
	}
	return cfg.ServiceName
}

func sampleRate(cfg Config) float64 {
	if cfg.SampleRate <= 0 {
		return 1.0
	}
	return cfg.SampleRate
}

// Tracer returns the tracer; it is a no-op tracer when disabled.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are recorded.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
