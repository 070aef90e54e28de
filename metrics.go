package jobdispatch

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the dispatcher to report
// submission and completion activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncSubmitted increments the submitted jobs counter.
	IncSubmitted()

	// IncFinished increments the collected results counter.
	IncFinished()

	// SetInFlight records the number of jobs currently held by workers.
	SetInFlight(n int64)
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes happen on the dispatch goroutine.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	submitted atomic.Uint64

	_ [56]byte // padding to avoid false sharing

	finished atomic.Uint64

	_ [56]byte

	inFlight atomic.Int64
}

// Submitted returns the total number of submitted jobs.
func (m *AtomicMetrics) Submitted() uint64 {
	return m.submitted.Load()
}

// Finished returns the total number of collected results.
func (m *AtomicMetrics) Finished() uint64 {
	return m.finished.Load()
}

// InFlight returns the last recorded number of in-flight jobs.
func (m *AtomicMetrics) InFlight() int64 {
	return m.inFlight.Load()
}

func (m *AtomicMetrics) IncSubmitted() {
	m.submitted.Add(1)
}

func (m *AtomicMetrics) IncFinished() {
	m.finished.Add(1)
}

func (m *AtomicMetrics) SetInFlight(n int64) {
	m.inFlight.Store(n)
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted()       {}
func (m *NoopMetrics) IncFinished()        {}
func (m *NoopMetrics) SetInFlight(n int64) {}
