package observability

import (
	"context"
	"regexp"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var legacyMetricName = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)

func TestNew_TracingEnabledProducesSampledSpans(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := New(Options{
		ServiceName:    "readiness-workers-test",
		TracingEnabled: true,
		SampleRatio:    1,
		Registerer:     reg,
	})
	require.NoError(t, err)
	defer func() { _ = obs.Shutdown(context.Background()) }()

	ctx, span := obs.StartJobSpan(context.Background(), "compute-readiness-score", 42, 7)
	defer span.End()

	sc := span.SpanContext()
	assert.True(t, sc.IsValid())
	assert.True(t, sc.IsSampled())
	assert.NotNil(t, ctx)
}

func TestNew_TracingDisabledUsesNoopTracer(t *testing.T) {
	obs, err := New(Options{ServiceName: "readiness-workers-test", Registerer: promclient.NewRegistry()})
	require.NoError(t, err)
	defer func() { _ = obs.Shutdown(context.Background()) }()

	_, span := obs.StartJobSpan(context.Background(), "match-partners", 1, 1)
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}

func TestRecordJob_ExportsThroughPrometheus(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := New(Options{ServiceName: "readiness-workers-test", Registerer: reg})
	require.NoError(t, err)
	defer func() { _ = obs.Shutdown(context.Background()) }()

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "match-partners", "completed")
	obs.RecordJobDuration(ctx, "match-partners", 25*time.Millisecond, "completed")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
		assert.Regexp(t, legacyMetricName, f.GetName(), "classic scrapers reject this name")
	}
	assert.Contains(t, names, "jobs_processed_total")
	assert.Contains(t, names, "jobs_duration_milliseconds")
}

func TestNoop_IsSafe(t *testing.T) {
	obs := NewNoop()
	ctx := context.Background()

	obs.RecordJobProcessed(ctx, "match-partners", "failed")
	obs.RecordJobDuration(ctx, "match-partners", time.Second, "failed")
	_, span := obs.StartJobSpan(ctx, "match-partners", 1, 1)
	span.End()

	assert.NoError(t, obs.Shutdown(ctx))
}
