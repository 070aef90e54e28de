package jobdispatch

import (
	"context"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

// Progress is the read side of a run that Watch reports on.
// *Dispatcher satisfies it.
type Progress interface {
	Snapshot() Snapshot
	Done() <-chan struct{}
}

// Watch logs the progress of src until it is done or ctx is canceled.
//
// Reports start after policy.Initial and their spacing grows towards
// policy.Max, so short runs are reported often and long runs do not flood
// the log. A final report is logged when src completes. Watch returns nil
// on completion and ctx.Err() if ctx ends first.
func Watch(ctx context.Context, src Progress, policy CadencePolicy) error {
	policy.fillDefaults()

	logger := lg.FromContext(ctx)
	report := func(msg string) {
		s := src.Snapshot()
		logger.Info(msg,
			lg.String("run_id", s.ID.String()),
			lg.Any("percent", s.Percent(policy.Precision)),
			lg.Int("finished", s.Finished),
			lg.Int("running", s.Running),
			lg.Int("total", s.Total),
			lg.String("elapsed", s.Elapsed.Round(time.Millisecond).String()),
			lg.String("eta", s.ETA),
		)
	}

	bo := boff.New(policy.Initial, policy.Max, time.Now().UnixNano())
	for {
		timer := time.NewTimer(bo.Next())
		select {
		case <-src.Done():
			timer.Stop()
			report("Dispatch finished")
			return nil
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			report("Dispatch progress")
		}
	}
}
