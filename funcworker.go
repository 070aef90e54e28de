package jobdispatch

import (
	"context"
	"runtime"
	"sync"

	lg "github.com/Andrej220/go-utils/zlog"
	"golang.org/x/time/rate"
)

// WorkerOptions configure a FuncWorker.
type WorkerOptions struct {
	// Ctx carries the logger and bounds limiter waits.
	Ctx context.Context

	// Pin locks the worker goroutine to an OS thread bound to CPU.
	// Only supported on Linux.
	Pin bool
	CPU int

	// Limiter, if set, is waited on before each job. Workers built by
	// NewFuncWorkers share it.
	Limiter *rate.Limiter

	// OnPanic receives the value recovered from a panicking job. The
	// worker still yields the zero result for that job.
	OnPanic func(any)
}

// FuncWorker runs a plain function in its own goroutine and satisfies
// Worker. It accepts one job at a time and keeps running until Close.
type FuncWorker[J, R any] struct {
	fn   func(J) R
	opts WorkerOptions

	inbox   chan J
	results chan R

	quit      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewFuncWorker[J, R any](fn func(J) R, opts WorkerOptions) *FuncWorker[J, R] {
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}
	w := &FuncWorker[J, R]{
		fn:      fn,
		opts:    opts,
		inbox:   make(chan J, 1),
		results: make(chan R, 1),
		quit:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w
}

// NewFuncWorkers starts n workers running fn. With opts.Pin set, worker i
// is pinned to CPU i modulo the number of CPUs.
func NewFuncWorkers[J, R any](n int, fn func(J) R, opts WorkerOptions) []*FuncWorker[J, R] {
	ws := make([]*FuncWorker[J, R], n)
	for i := range ws {
		o := opts
		if o.Pin {
			o.CPU = i % runtime.NumCPU()
		}
		ws[i] = NewFuncWorker(fn, o)
	}
	return ws
}

// Submit hands job to the worker. It returns immediately while the worker
// is idle and is a no-op after Close.
func (w *FuncWorker[J, R]) Submit(job J) {
	select {
	case w.inbox <- job:
	case <-w.quit:
	}
}

func (w *FuncWorker[J, R]) Results() <-chan R { return w.results }

// Close stops the worker and waits for its goroutine to exit. A job in
// progress is finished first; its result is discarded if nobody reads it.
func (w *FuncWorker[J, R]) Close() {
	w.closeOnce.Do(func() { close(w.quit) })
	w.wg.Wait()
}

func (w *FuncWorker[J, R]) loop() {
	defer w.wg.Done()

	if w.opts.Pin {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := PinToCPU(w.opts.CPU); err != nil {
			lg.FromContext(w.opts.Ctx).Warn("Worker pinning failed",
				lg.Int("cpu", w.opts.CPU),
				lg.Any("error", err),
			)
		}
	}

	for {
		select {
		case <-w.quit:
			return
		case job := <-w.inbox:
			r := w.process(job)
			select {
			case w.results <- r:
			case <-w.quit:
				return
			}
		}
	}
}

func (w *FuncWorker[J, R]) process(job J) (r R) {
	defer func() {
		if p := recover(); p != nil {
			lg.FromContext(w.opts.Ctx).Error("job panicked", lg.Any("panic", p))
			if w.opts.OnPanic != nil {
				w.opts.OnPanic(p)
			}
		}
	}()

	if w.opts.Limiter != nil {
		// the job still runs; a worker owes one result per submission
		if err := w.opts.Limiter.Wait(w.opts.Ctx); err != nil {
			lg.FromContext(w.opts.Ctx).Warn("rate limiter wait aborted", lg.Any("error", err))
		}
	}
	return w.fn(job)
}
