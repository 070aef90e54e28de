package jobdispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Status is the lifecycle state of a Dispatcher.
type Status uint8

const (
	Idle Status = iota
	Running
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	default:
		return "Unknown"
	}
}

// Dispatcher feeds a fixed set of workers from an ordered job list until
// the list is exhausted.
//
// All dispatch state is written by a single goroutine started in New and
// read by any number of callers through the query methods. The job slice
// must not be modified while the dispatcher is running.
type Dispatcher[J, R any] struct {
	id      uuid.UUID
	jobs    []J
	workers []Worker[J, R]
	opts    Options

	mu        sync.RWMutex
	nextJob   int
	finished  int
	results   []R
	status    Status
	startedAt time.Time

	// owned by the dispatch goroutine
	busy   []bool
	closed []bool

	ctx    context.Context
	span   trace.Span
	doneCh chan struct{}
}

// New validates its arguments, hands the first job to each worker in order
// and starts the dispatch goroutine.
//
// When there are fewer jobs than workers the surplus workers never receive
// anything. New returns ErrNoJobs, ErrNoWorkers or ErrNilWorker on invalid
// input.
func New[J, R any](jobs []J, workers []Worker[J, R], opts Options) (*Dispatcher[J, R], error) {
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}
	if len(workers) == 0 {
		return nil, ErrNoWorkers
	}
	for i, w := range workers {
		if w == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilWorker, i)
		}
	}
	opts.FillDefaults()

	d := &Dispatcher[J, R]{
		id:      uuid.New(),
		jobs:    jobs,
		workers: workers,
		opts:    opts,
		results: make([]R, 0, len(jobs)),
		busy:    make([]bool, len(workers)),
		closed:  make([]bool, len(workers)),
		doneCh:  make(chan struct{}),
	}

	d.ctx, d.span = opts.Tracer.Start(opts.Ctx, "jobdispatch.run",
		trace.WithAttributes(
			attribute.String("run.id", d.id.String()),
			attribute.Int("jobs.total", len(jobs)),
			attribute.Int("workers.total", len(workers)),
		))

	d.mu.Lock()
	d.startedAt = opts.Now()
	d.status = Running
	d.mu.Unlock()

	for i := 0; i < min(len(workers), len(jobs)); i++ {
		d.assign(i)
	}

	lg.FromContext(d.ctx).Info("Dispatcher started",
		lg.String("run_id", d.id.String()),
		lg.Int("jobs", len(jobs)),
		lg.Int("workers", len(workers)),
	)

	go d.run()
	return d, nil
}

// ID identifies this run in logs, spans and metrics.
func (d *Dispatcher[J, R]) ID() uuid.UUID { return d.id }

func (d *Dispatcher[J, R]) run() {
	defer close(d.doneCh)

	cases := d.selectCases()
	for d.nextJob < len(d.jobs) {
		i, r := d.selectReady(cases)
		d.collect(i, r)
		d.assign(i)
	}
	d.span.AddEvent("assignment_complete")
	lg.FromContext(d.ctx).Info("All jobs assigned, draining workers",
		lg.String("run_id", d.id.String()),
		lg.Int("in_flight", d.inFlight()),
	)

	// drain in construction order
	for i := range d.workers {
		if !d.busy[i] {
			continue
		}
		d.collect(i, d.takeFinal(i))
	}
	d.span.AddEvent("drain_complete")

	d.mu.Lock()
	elapsed := d.opts.Now().Sub(d.startedAt)
	d.mu.Unlock()

	d.span.SetStatus(codes.Ok, "all jobs finished")
	d.span.End()
	lg.FromContext(d.ctx).Info("Dispatcher finished",
		lg.String("run_id", d.id.String()),
		lg.Int("results", len(d.jobs)),
		lg.String("elapsed", elapsed.String()),
	)

	d.mu.Lock()
	d.status = Idle
	d.mu.Unlock()
}

// collect records one result from worker i. The results slice and the
// finished counter change under the same lock so readers never see one
// without the other.
func (d *Dispatcher[J, R]) collect(i int, r R) {
	d.busy[i] = false

	d.mu.Lock()
	d.results = append(d.results, r)
	d.finished++
	inFlight := d.nextJob - d.finished
	d.mu.Unlock()

	d.opts.Metrics.IncFinished()
	d.opts.Metrics.SetInFlight(int64(inFlight))
}

// assign hands the next pending job to worker i.
func (d *Dispatcher[J, R]) assign(i int) {
	d.workers[i].Submit(d.jobs[d.nextJob])
	d.busy[i] = true

	d.mu.Lock()
	d.nextJob++
	inFlight := d.nextJob - d.finished
	d.mu.Unlock()

	d.opts.Metrics.IncSubmitted()
	d.opts.Metrics.SetInFlight(int64(inFlight))
}

func (d *Dispatcher[J, R]) inFlight() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.nextJob - d.finished
}

// Done is closed once the dispatch goroutine has terminated.
func (d *Dispatcher[J, R]) Done() <-chan struct{} { return d.doneCh }

// Join blocks until every job has been collected and the dispatcher is
// back to Idle. It blocks forever if a worker never yields.
func (d *Dispatcher[J, R]) Join() { <-d.doneCh }

// JoinContext is Join with a way out for the caller: it returns ctx.Err()
// when ctx is done first. The run itself keeps going.
func (d *Dispatcher[J, R]) JoinContext(ctx context.Context) error {
	select {
	case <-d.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
