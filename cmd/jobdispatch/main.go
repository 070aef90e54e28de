// Command jobdispatch runs a demo dispatch: it squares a sequence of
// integers on a pool of workers while exporting metrics, traces and
// progress logs.
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	jd "github.com/azargarov/jobdispatch"
	"github.com/azargarov/jobdispatch/internal/config"
	"github.com/azargarov/jobdispatch/internal/tracing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		lg.FromContext(ctx).Error("jobdispatch failed", lg.Any("error", err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger := lg.FromContext(ctx)

	if _, err := maxprocs.Set(); err != nil {
		logger.Warn("failed to set GOMAXPROCS", lg.Any("error", err))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	traceOut := io.Discard
	if cfg.TraceStdout {
		traceOut = os.Stdout
	}
	shutdownTracer, err := tracing.InitTracer(cfg.ServiceName, traceOut)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("failed to shutdown tracer", lg.Any("error", err))
		}
	}()

	reg := prometheus.NewRegistry()
	metrics := jd.NewPrometheusMetrics(reg, prometheus.Labels{"service": cfg.ServiceName})

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	workers := jd.NewFuncWorkers(cfg.Workers, square(cfg.JobDelay), jd.WorkerOptions{
		Ctx:     ctx,
		Pin:     cfg.PinWorkers,
		Limiter: rate.NewLimiter(limit, cfg.RateBurst),
	})
	defer func() {
		for _, w := range workers {
			w.Close()
		}
	}()

	start := time.Now()
	jobs := make([]int, cfg.Jobs)
	for i := range jobs {
		jobs[i] = i + 1
	}

	d, err := jd.New(jobs, jd.AsWorkers[int, int](workers), jd.Options{
		Ctx:     ctx,
		Metrics: metrics,
		OnInternalError: func(err error) {
			logger.Error("dispatcher internal error", lg.Any("error", err))
		},
	})
	if err != nil {
		return err
	}

	var srv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		srv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	g, gctx := errgroup.WithContext(ctx)
	if srv != nil {
		g.Go(func() error {
			logger.Info("Serving metrics", lg.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		err := jd.Watch(gctx, d, jd.CadencePolicy{
			Initial:   cfg.ProgressInitial,
			Max:       cfg.ProgressMax,
			Precision: cfg.ProgressPrecision,
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := d.JoinContext(gctx)
		if srv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if serr := srv.Shutdown(shutdownCtx); serr != nil {
				logger.Warn("metrics server shutdown failed", lg.Any("error", serr))
			}
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	sum := 0
	for _, r := range d.Results() {
		sum += r
	}
	logger.Info("Dispatch complete",
		lg.String("run_id", d.ID().String()),
		lg.Int("results", len(d.Results())),
		lg.Int("sum", sum),
		lg.String("elapsed", time.Since(start).Round(time.Millisecond).String()),
	)
	return nil
}

func square(delay time.Duration) func(int) int {
	return func(x int) int {
		if delay > 0 {
			time.Sleep(delay)
		}
		return x * x
	}
}
