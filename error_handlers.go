package jobdispatch

import (
	"errors"
)

var (
	// ErrNoJobs is returned by New for an empty job list.
	ErrNoJobs = errors.New("dispatcher: job list is empty")

	// ErrNoWorkers is returned by New for an empty worker set.
	ErrNoWorkers = errors.New("dispatcher: worker set is empty")

	// ErrNilWorker is returned by New when a worker handle is nil.
	ErrNilWorker = errors.New("dispatcher: nil worker handle")

	// ErrWorkerClosed is reported when a worker closes its results channel.
	ErrWorkerClosed = errors.New("dispatcher: worker results channel closed")

	// ErrPinUnsupported is returned by PinToCPU on platforms without
	// thread affinity support.
	ErrPinUnsupported = errors.New("worker: cpu pinning not supported on this platform")
)

// reportInternalError reports an internal dispatcher error.
//
// Internal errors are failures that are not produced by the jobs
// themselves, such as a worker closing its results channel.
// If no handler is registered, the error is only logged.
func (d *Dispatcher[J, R]) reportInternalError(e error) {
	if d.opts.OnInternalError != nil {
		d.opts.OnInternalError(e)
	}
}
