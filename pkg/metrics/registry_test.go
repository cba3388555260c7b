package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordChunkIncrementsCountersAndBytes(t *testing.T) {
	r := NewRegistry()
	r.RecordChunk("old", 100)
	r.RecordChunk("old", 50)

	assert.Equal(t, float64(2), testutil.ToFloat64(r.chunksTotal.WithLabelValues("old")))
	assert.Equal(t, float64(150), testutil.ToFloat64(r.bytesReadTotal.WithLabelValues("old")))
}

func TestRecordDeltaRecordTracksPerTag(t *testing.T) {
	r := NewRegistry()
	r.RecordDeltaRecord("ORIGINAL")
	r.RecordDeltaRecord("ORIGINAL")
	r.RecordDeltaRecord("ADDED")

	assert.Equal(t, float64(2), testutil.ToFloat64(r.deltaRecordsTotal.WithLabelValues("ORIGINAL")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.deltaRecordsTotal.WithLabelValues("ADDED")))
}

func TestObservePipelineDurationDoesNotPanic(t *testing.T) {
	r := NewRegistry()
	require.NotPanics(t, func() {
		r.ObservePipelineDuration("align", 5*time.Millisecond)
	})
}

func TestNoopMetricsSatisfiesInterfaceWithoutPanicking(t *testing.T) {
	var m MetricsCollector = NoopMetrics{}
	require.NotPanics(t, func() {
		m.RecordChunk("old", 10)
		m.RecordBytesRead("new", 20)
		m.RecordDeltaRecord("MODIFIED")
		m.ObservePipelineDuration("write", time.Millisecond)
	})
}
