package job

import (
	"log/slog"
	"sync"

	"github.com/robfig/cron"
)

// Runner owns the cron instance and the registered periodic jobs.
// Start and Stop are idempotent, so a supervisor can call either
// without tracking whether the runner is already live.
type Runner struct {
	mu      sync.Mutex
	cron    *cron.Cron
	running bool

	scheduler *SchedulerJob
	analytics *AnalyticsJob
	recycler  *RecycleJob
	tokens    *TokenRefreshJob
}

func NewRunner(scheduler *SchedulerJob, analytics *AnalyticsJob, recycler *RecycleJob, tokens *TokenRefreshJob) *Runner {
	return &Runner{
		scheduler: scheduler,
		analytics: analytics,
		recycler:  recycler,
		tokens:    tokens,
	}
}

func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}

	c := cron.New()
	c.AddFunc("@every 00h15m00s", r.scheduler.AutoScheduleSweep)
	c.AddFunc("@every 00h15m00s", r.scheduler.DueScheduleSweep)
	c.AddFunc("@every 00h10m00s", r.tokens.RefreshTokens)
	c.AddFunc("0 0 2 * * *", r.analytics.RefreshAnalytics)
	c.AddFunc("0 0 3 * * 0", r.recycler.RecycleIdeas)
	c.Start()

	r.cron = c
	r.running = true
	slog.Info("job runner started")
}

func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.cron.Stop()
	r.cron = nil
	r.running = false
	slog.Info("job runner stopped")
}

func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
