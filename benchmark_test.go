package jobdispatch_test

import (
	"fmt"
	"runtime"
	"testing"

	jd "github.com/azargarov/jobdispatch"
)

// -----------------------------------------------------------------------------
// Dispatcher throughput
// -----------------------------------------------------------------------------

func benchWorkerOptions() jd.WorkerOptions {
	// JOBDISPATCH_BENCH_PIN=1 pins each worker to a CPU on Linux
	return jd.WorkerOptions{Pin: getenvInt("JOBDISPATCH_BENCH_PIN", 0) == 1}
}

func BenchmarkDispatcher_Workloads(b *testing.B) {
	const jobsPerRun = 4096
	workers := runtime.GOMAXPROCS(0)
	jobs := sequence(jobsPerRun)

	for _, wl := range workloads {
		b.Run(wl.name, func(b *testing.B) {
			ws := jd.NewFuncWorkers(workers, wl.fn, benchWorkerOptions())
			defer func() {
				for _, w := range ws {
					w.Close()
				}
			}()
			handles := jd.AsWorkers[int, int](ws)

			b.ReportAllocs()
			b.ResetTimer()

			for b.Loop() {
				d, err := jd.New(jobs, handles, jd.Options{})
				if err != nil {
					b.Fatalf("new dispatcher: %v", err)
				}
				d.Join()
			}
			b.ReportMetric(float64(jobsPerRun), "jobs/op")
		})
	}
}

func BenchmarkDispatcher_WorkerCount(b *testing.B) {
	const jobsPerRun = 2048
	jobs := sequence(jobsPerRun)

	for _, n := range []int{1, 2, 4, 8, 16} {
		b.Run(fmt.Sprintf("workers=%d", n), func(b *testing.B) {
			ws := jd.NewFuncWorkers(n, emptyWork, jd.WorkerOptions{})
			defer func() {
				for _, w := range ws {
					w.Close()
				}
			}()
			handles := jd.AsWorkers[int, int](ws)

			b.ReportAllocs()
			b.ResetTimer()

			for b.Loop() {
				d, err := jd.New(jobs, handles, jd.Options{})
				if err != nil {
					b.Fatalf("new dispatcher: %v", err)
				}
				d.Join()
			}
		})
	}
}

func BenchmarkDispatcher_ConcurrentQueries(b *testing.B) {
	ws := jd.NewFuncWorkers(runtime.GOMAXPROCS(0), cpuWork, jd.WorkerOptions{})
	defer func() {
		for _, w := range ws {
			w.Close()
		}
	}()

	d, err := jd.New(sequence(1<<16), jd.AsWorkers[int, int](ws), jd.Options{})
	if err != nil {
		b.Fatalf("new dispatcher: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = d.Snapshot()
			_ = d.PercentComplete(2)
		}
	})

	b.StopTimer()
	d.Join()
}
