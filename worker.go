package jobdispatch

import (
	"fmt"
	"reflect"

	lg "github.com/Andrej220/go-utils/zlog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Worker is a long-lived actor that accepts one job, produces exactly one
// result on its Results channel, and then waits for the next job.
//
// Submit must not block under correct use: the dispatcher only submits to
// a worker whose previous result it has already received. Results must
// return the same channel on every call and the channel should never be
// closed while the worker is in use.
type Worker[J, R any] interface {
	Submit(job J)
	Results() <-chan R
}

// AsWorkers converts a slice of concrete workers into the slice of handles
// New expects.
func AsWorkers[J, R any, W Worker[J, R]](ws []W) []Worker[J, R] {
	out := make([]Worker[J, R], len(ws))
	for i, w := range ws {
		out[i] = w
	}
	return out
}

func (d *Dispatcher[J, R]) selectCases() []reflect.SelectCase {
	cases := make([]reflect.SelectCase, len(d.workers))
	for i, w := range d.workers {
		cases[i] = reflect.SelectCase{
			Dir:  reflect.SelectRecv,
			Chan: reflect.ValueOf(w.Results()),
		}
	}
	return cases
}

// selectReady blocks until any worker has a result and returns the index
// of that worker together with the result.
//
// When several workers are ready at once the runtime picks one uniformly
// at random, so completion order between concurrent workers is not
// deterministic but no worker can be starved.
func (d *Dispatcher[J, R]) selectReady(cases []reflect.SelectCase) (int, R) {
	for {
		i, v, ok := reflect.Select(cases)
		if ok {
			var r R
			reflect.ValueOf(&r).Elem().Set(v)
			return i, r
		}
		// a zero Chan makes reflect.Select ignore the case
		cases[i].Chan = reflect.Value{}
		d.workerClosed(i)
	}
}

// takeFinal receives the last in-flight result of worker i during drain.
func (d *Dispatcher[J, R]) takeFinal(i int) R {
	r, ok := <-d.workers[i].Results()
	if !ok {
		d.workerClosed(i)
		// a closed worker never yields; wait like for an unresponsive one
		select {}
	}
	return r
}

func (d *Dispatcher[J, R]) workerClosed(i int) {
	if d.closed[i] {
		return
	}
	d.closed[i] = true

	err := fmt.Errorf("%w: worker %d", ErrWorkerClosed, i)
	d.span.RecordError(err, trace.WithAttributes(attribute.Int("worker.index", i)))
	lg.FromContext(d.ctx).Error("Worker results channel closed",
		lg.String("run_id", d.id.String()),
		lg.Int("worker", i),
	)
	d.reportInternalError(err)
}
