package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
)

// Job is a repeating background sweep.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type scheduled struct {
	job   Job
	every time.Duration
}

// Runner runs each added job on its own fixed-interval ticker until the
// context is cancelled. Overlapping runs of the same job are not prevented
// here; intervals are expected to exceed a run's duration.
type Runner struct {
	jobs []scheduled
}

func (r *Runner) Add(j Job, every time.Duration) {
	r.jobs = append(r.jobs, scheduled{job: j, every: every})
}

// Start blocks until ctx is cancelled and every job goroutine has returned.
func (r *Runner) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for _, s := range r.jobs {
		wg.Add(1)
		go func(s scheduled) {
			defer wg.Done()
			r.loop(ctx, s)
		}(s)
	}
	wg.Wait()
}

func (r *Runner) loop(ctx context.Context, s scheduled) {
	l := logging.FromContext(ctx).With("job", s.job.Name())
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.job.Run(ctx); err != nil {
				l.Error("job_run_failed", "error", err)
			}
		}
	}
}
