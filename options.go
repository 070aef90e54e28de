package jobdispatch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/azargarov/jobdispatch"

// Options configure a Dispatcher.
//
// All zero values are replaced with defaults in FillDefaults.
type Options struct {
	// Ctx carries the logger and the parent span. It does not cancel the run.
	Ctx context.Context

	Metrics MetricsPolicy

	Tracer trace.Tracer

	// ETA formats the value returned by Dispatcher.ETA.
	ETA ETAFormatter

	// Now is the clock used for elapsed time and ETA.
	Now func() time.Time

	// OnInternalError receives non-job failures such as a closed worker
	// results channel.
	OnInternalError func(error)
}

func (o *Options) FillDefaults() {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer(tracerName)
	}
	if o.ETA == nil {
		o.ETA = FormatETA
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}
