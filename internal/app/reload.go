package app

import (
	"context"
	"sync"
	"time"
)

// Reload is the handle to one scheduled reconciliation. Each trigger owns
// its own handle; two triggers in flight schedule two independent reloads
// and both eventually run. Cancel suppresses a reload that has not started
// yet, for callers tearing down before the delay elapses.
type Reload struct {
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
}

// Done is closed once the reload has run or been cancelled.
func (r *Reload) Done() <-chan struct{} {
	return r.done
}

// Cancel stops a reload that has not fired yet. It reports whether the
// reload was suppressed; false means it already ran or is running.
func (r *Reload) Cancel() bool {
	stopped := r.timer.Stop()
	if stopped {
		r.once.Do(func() { close(r.done) })
	}
	return stopped
}

// scheduleReload arms a one-shot reload of the job list after delay. The
// continuation runs on its own goroutine with a background context: it is
// not tied to whatever request context armed it.
func (c *Coordinator) scheduleReload(delay time.Duration) *Reload {
	r := &Reload{done: make(chan struct{})}
	r.timer = time.AfterFunc(delay, func() {
		defer r.once.Do(func() { close(r.done) })
		c.reloadJobs(context.Background())
	})
	return r
}
