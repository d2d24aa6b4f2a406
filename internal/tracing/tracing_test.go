package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(DefaultConfig())
	require.NoError(t, err)
	require.False(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "noop")
	require.False(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"file without path", Config{Enabled: true, Exporter: "file"}},
		{"unknown exporter", Config{Enabled: true, Exporter: "zipkin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.cfg)
			require.Error(t, err)
		})
	}
}

func TestNewProvider_FileExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "traces.jsonl")
	p, err := NewProvider(Config{Enabled: true, Exporter: "file", FilePath: path})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := StartVerb(context.Background(), p.Tracer(), "AddNode", attribute.String(AttrWidget, "orchard.math.One"))
	require.NoError(t, End(span, nil))
	require.NoError(t, p.Shutdown(context.Background()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())

	var rec SpanRecord
	require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
	require.Equal(t, "document.AddNode", rec.Name)
	require.Equal(t, "OK", rec.Status)
	require.Equal(t, "orchard.math.One", rec.Attributes[AttrWidget])
}

func TestFileExporter_AppendsAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

	exp, err := NewFileExporter(path)
	require.NoError(t, err)
	stub := tracetest.SpanStub{
		Name:      "document.Undo",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(5 * time.Millisecond),
		Status:    sdktrace.Status{Code: codes.Error, Description: "nothing to undo"},
	}
	require.NoError(t, exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exp.Shutdown(context.Background()))
	require.NoError(t, exp.Shutdown(context.Background()))
	require.Error(t, exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"status":"ERROR"`)
	require.Contains(t, string(data), `"status_message":"nothing to undo"`)
}

type carrier struct{ sc trace.SpanContext }

func (c *carrier) SetSpanContext(sc trace.SpanContext) { c.sc = sc }

func TestStartVerb_EndAndStamp(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	p := NewProviderWithExporter(exp)
	defer func() { _ = p.Shutdown(context.Background()) }()

	ctx, span := StartVerb(context.Background(), p.Tracer(), "RemoveNode")
	var c carrier
	Stamp(ctx, &c, "cmd-1", "remove_node")
	boom := errors.New("boom")
	require.ErrorIs(t, End(span, boom), boom)

	require.True(t, c.sc.IsValid())
	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "document.RemoveNode", spans[0].Name)
	require.Equal(t, codes.Error, spans[0].Status.Code)
	require.Equal(t, c.sc.SpanID(), spans[0].SpanContext.SpanID())
	require.Len(t, spans[0].Events, 2) // command.pushed and the recorded error
	require.Equal(t, EventCommandPushed, spans[0].Events[0].Name)
}
