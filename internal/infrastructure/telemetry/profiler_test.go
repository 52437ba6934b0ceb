package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/filterdesk/backend/internal/infrastructure/config"
	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	for _, cfg := range []config.TelemetryConfig{
		{Enabled: false, ProfilingEnabled: true, ProfilingServerAddress: "http://pyroscope:4040"},
		{Enabled: true, ProfilingEnabled: false},
	} {
		p, err := NewProfiler(cfg, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Shutdown(context.Background()))
		assert.NoError(t, p.Shutdown(context.Background()))
	}
}

func TestNewProfiler_InvalidConfig(t *testing.T) {
	_, err := NewProfiler(config.TelemetryConfig{Enabled: true, ProfilingEnabled: true}, zap.NewNop())
	assert.ErrorContains(t, err, "server address")

	_, err = NewProfiler(config.TelemetryConfig{
		Enabled:                true,
		ProfilingEnabled:       true,
		ProfilingServerAddress: "http://pyroscope:4040",
		ProfilingTypes:         []string{"cpu", "heap"},
	}, zap.NewNop())
	assert.ErrorContains(t, err, `unknown profile type "heap"`)
}

func TestParseProfileTypes(t *testing.T) {
	types, err := parseProfileTypes([]string{"cpu", "inuse_space", "goroutines"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU, pyroscope.ProfileInuseSpace, pyroscope.ProfileGoroutines,
	}, types)

	types, err = parseProfileTypes(nil)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestLabelPairs(t *testing.T) {
	long := strings.Repeat("x", MaxLabelValueLength+10)
	pairs := labelPairs(map[string]string{
		"Route":      "/api/v1/orders/:id",
		"PDF-Engine": "chromedp",
		"order_id":   "8d7f",
		"empty":      "",
		"!!":         "dropped",
		"operation":  long,
	})

	// sorted by the raw key, so upper case first
	assert.Equal(t, []string{
		"pdf_engine", "chromedp",
		"route", "/api/v1/orders/:id",
		"operation", long[:MaxLabelValueLength],
	}, pairs)
}

func TestWithProfilingLabels(t *testing.T) {
	ctx := context.Background()

	var got string
	var ok bool
	WithProfilingLabels(ctx, map[string]string{ProfilingLabelOperation: "order.confirm"}, func(c context.Context) {
		got, ok = pprof.Label(c, ProfilingLabelOperation)
	})
	assert.True(t, ok)
	assert.Equal(t, "order.confirm", got)

	called := false
	WithProfilingLabels(ctx, map[string]string{"user_id": "42"}, func(c context.Context) {
		called = true
		assert.Equal(t, ctx, c)
	})
	assert.True(t, called)
}

func TestTracerProvider_EnableSpanProfiles(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	disabled := &TracerProvider{logger: zap.NewNop()}
	disabled.EnableSpanProfiles()
	assert.Nil(t, disabled.spanProfiles)

	recorder := tracetest.NewSpanRecorder()
	sdk := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = sdk.Shutdown(context.Background()) })

	tp := &TracerProvider{provider: sdk, logger: zap.NewNop()}
	tp.EnableSpanProfiles()
	require.NotNil(t, tp.spanProfiles)
	assert.Same(t, tp.spanProfiles, otel.GetTracerProvider())

	_, span := tp.Tracer(TracerName).Start(context.Background(), "pdf.render")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "pdf.render", spans[0].Name())
}
