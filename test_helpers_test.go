package jobdispatch_test

import (
	"crypto/sha256"
	"os"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	jd "github.com/azargarov/jobdispatch"
)

type workload struct {
	name string
	fn   func(int) int
}

var shaData = []byte("some deterministic payloadsome deterministic payloadsome deterministic payloadsome deterministic payload")

var (
	emptyWork = func(x int) int {
		return x
	}

	cpuWork = func(x int) int {
		for i := range 1000 {
			x += i * i
		}
		return x
	}

	ioWork = func(x int) int {
		time.Sleep(5 * time.Microsecond)
		return x
	}

	shaWork = func(x int) int {
		sum := sha256.Sum256(shaData)
		return x + int(sum[0])
	}
)

var workloads = []workload{
	{"empty ", emptyWork},
	{"sha256", shaWork},
	{"cpu   ", cpuWork},
	{"io    ", ioWork},
}

// echoWorker yields fn(job) synchronously from Submit and records what it
// was given.
type echoWorker struct {
	fn      func(int) int
	results chan int

	mu        sync.Mutex
	submitted []int
}

func newEchoWorker(fn func(int) int) *echoWorker {
	return &echoWorker{fn: fn, results: make(chan int, 1)}
}

func (w *echoWorker) Submit(job int) {
	w.mu.Lock()
	w.submitted = append(w.submitted, job)
	w.mu.Unlock()
	w.results <- w.fn(job)
}

func (w *echoWorker) Results() <-chan int { return w.results }

func (w *echoWorker) Submitted() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]int(nil), w.submitted...)
}

// manualWorker publishes received jobs and only yields when the test
// calls release.
type manualWorker struct {
	jobs    chan int
	results chan int
}

func newManualWorker() *manualWorker {
	return &manualWorker{
		jobs:    make(chan int, 64),
		results: make(chan int, 1),
	}
}

func (w *manualWorker) Submit(job int)      { w.jobs <- job }
func (w *manualWorker) Results() <-chan int { return w.results }
func (w *manualWorker) release(r int)       { w.results <- r }

// fakeClock is a settable time source for ETA tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newFuncWorkers(t testing.TB, n int, fn func(int) int) []jd.Worker[int, int] {
	t.Helper()

	ws := jd.NewFuncWorkers(n, fn, jd.WorkerOptions{})
	t.Cleanup(func() {
		for _, w := range ws {
			w.Close()
		}
	})
	return jd.AsWorkers[int, int](ws)
}

func sequence(n int) []int {
	jobs := make([]int, n)
	for i := range jobs {
		jobs[i] = i + 1
	}
	return jobs
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

func getenvInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
