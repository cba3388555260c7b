package metrics

import "time"

// NoopMetrics discards every observation. It satisfies MetricsCollector
// for library-mode callers that want the pipeline's instrumentation
// calls to stay no-ops rather than threading a nil check everywhere.
type NoopMetrics struct{}

func (NoopMetrics) RecordChunk(source string, bytes int)                 {}
func (NoopMetrics) RecordBytesRead(source string, bytes int64)           {}
func (NoopMetrics) RecordDeltaRecord(tag string)                        {}
func (NoopMetrics) ObservePipelineDuration(stage string, d time.Duration) {}

var _ MetricsCollector = NoopMetrics{}
