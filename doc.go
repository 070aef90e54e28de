// Package jobdispatch feeds a fixed pool of long-lived workers from an
// ordered job list and reports live progress while it does so.
//
// Dispatch model
//
// A Dispatcher is built from a slice of jobs and a slice of Worker
// handles. New hands one job to each worker in order and starts a single
// background goroutine that:
//
//   1. Waits until any worker has a result ready.
//   2. Records the result and gives that same worker the next job.
//   3. Once every job has been assigned, collects the last result of each
//      busy worker in construction order (the drain phase) and stops.
//
// Every worker stays busy for as long as jobs remain. Results are stored in
// completion order, which is not deterministic when more than one worker
// is running; with a single worker it equals submission order.
//
// Workers
//
// A Worker accepts one job through Submit and yields exactly one result on
// its Results channel before accepting the next one. The dispatcher never
// starts, stops or restarts workers. FuncWorker is a ready-made
// implementation that runs a plain function in its own goroutine, with
// optional rate limiting and CPU pinning.
//
// Progress
//
// JobsTotal, JobsFinished, JobsRunning, JobsRemaining, IsDone,
// PercentComplete, ETA, Results and Snapshot can be called from any
// goroutine while the run is in progress. They read a consistent view of
// the state: a result and the finished counter always change together.
//
// Watch logs progress at a growing interval until the run completes.
// Activity can also be exported through a MetricsPolicy such as
// PrometheusMetrics, and each run is traced as one OpenTelemetry span.
//
// Failure model
//
// There are no retries, timeouts or cancellation. A worker that never
// yields blocks the run, and Join with it, forever. Invalid input is
// rejected by New with ErrNoJobs, ErrNoWorkers or ErrNilWorker. A worker
// that closes its results channel is reported through
// Options.OnInternalError and is then treated as unresponsive.
package jobdispatch
