package jobdispatch

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// maxPrecision bounds the rounding scale so 10^precision stays exact.
const maxPrecision = 15

// Snapshot is a consistent view of a dispatcher's progress.
type Snapshot struct {
	ID       uuid.UUID
	Status   Status
	Total    int
	Finished int
	Running  int
	Elapsed  time.Duration
	ETA      string
}

// Remaining returns the number of jobs not yet collected.
func (s Snapshot) Remaining() int { return s.Total - s.Finished }

// Percent returns the completion percentage rounded to precision
// fractional digits.
func (s Snapshot) Percent(precision int) float64 {
	return percent(s.Finished, s.Total, precision)
}

// Snapshot reads all progress counters at once.
func (d *Dispatcher[J, R]) Snapshot() Snapshot {
	d.mu.RLock()
	s := Snapshot{
		ID:       d.id,
		Status:   d.status,
		Total:    len(d.jobs),
		Finished: d.finished,
		Running:  d.nextJob - d.finished,
	}
	startedAt := d.startedAt
	d.mu.RUnlock()

	s.Elapsed = d.opts.Now().Sub(startedAt)
	s.ETA = d.opts.ETA(s.Elapsed, fraction(s.Finished, s.Total))
	return s
}

func (d *Dispatcher[J, R]) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

func (d *Dispatcher[J, R]) JobsTotal() int { return len(d.jobs) }

func (d *Dispatcher[J, R]) JobsFinished() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.finished
}

// JobsRunning returns the number of jobs handed to workers whose results
// have not been collected yet.
func (d *Dispatcher[J, R]) JobsRunning() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.nextJob - d.finished
}

func (d *Dispatcher[J, R]) JobsRemaining() int {
	return len(d.jobs) - d.JobsFinished()
}

// IsDone reports whether every job was both assigned and collected,
// including the drain phase.
func (d *Dispatcher[J, R]) IsDone() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.nextJob == len(d.jobs) && d.finished == len(d.jobs)
}

// PercentComplete returns finished/total*100 rounded to precision
// fractional digits. Negative precision is treated as zero.
func (d *Dispatcher[J, R]) PercentComplete(precision int) float64 {
	return percent(d.JobsFinished(), len(d.jobs), precision)
}

// ETA formats the estimated remaining time with the configured formatter.
func (d *Dispatcher[J, R]) ETA() string {
	return d.Snapshot().ETA
}

// Results returns a copy of the results collected so far, in completion
// order.
func (d *Dispatcher[J, R]) Results() []R {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.results)
}

func fraction(finished, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(finished) / float64(total)
}

func percent(finished, total, precision int) float64 {
	precision = max(0, min(precision, maxPrecision))
	scale := math.Pow10(precision)
	return math.Round(fraction(finished, total)*100*scale) / scale
}
