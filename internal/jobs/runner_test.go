package job

import "testing"

func newIdleRunner() *Runner {
	mr := newFakeMediaRepo()
	sr := newFakeScheduleRepo(mr)
	ir := newFakeIdeaRepo()
	pr := newFakePreferenceRepo()
	sa := newFakeSocialAccountRepo()
	ar := newFakeAnalyticsRepo()
	tt := &fakeTiktok{}

	return NewRunner(
		NewSchedulerJob(mr, sr, ir, pr, &fakePublisher{}),
		NewAnalyticsJob(sr, sa, ar, pr, tt),
		NewRecycleJob(ir, &fakeEnqueuer{}),
		NewTokenRefreshJob(sa, tt),
	)
}

func TestRunnerStartIsIdempotent(t *testing.T) {
	r := newIdleRunner()
	defer r.Stop()

	r.Start()
	if !r.Running() {
		t.Fatal("runner not running after Start")
	}

	// A second Start is a no-op, not an error or a second cron.
	r.Start()
	if !r.Running() {
		t.Fatal("runner stopped by redundant Start")
	}
}

func TestRunnerStopIsIdempotent(t *testing.T) {
	r := newIdleRunner()

	r.Start()
	r.Stop()
	if r.Running() {
		t.Fatal("runner still running after Stop")
	}

	r.Stop()
	if r.Running() {
		t.Fatal("runner running after double Stop")
	}
}

func TestRunnerRestart(t *testing.T) {
	r := newIdleRunner()
	defer r.Stop()

	r.Start()
	r.Stop()
	r.Start()
	if !r.Running() {
		t.Fatal("runner not running after restart")
	}
}
