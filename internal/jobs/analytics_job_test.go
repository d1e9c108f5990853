package job

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/internal/transfer"
)

func publishedSchedule(sr *fakeScheduleRepo, userID int64) int64 {
	ctx := context.Background()
	id, _ := sr.Create(ctx, nil, &models.Schedule{
		MediaID:       1,
		UserID:        userID,
		ScheduledTime: time.Now().Add(-48 * time.Hour),
		Status:        models.ScheduleStatusPending,
	})
	sr.ClaimForUpload(ctx, id, time.Now())
	sr.MarkPublished(ctx, id, "vid123", "url")
	sr.schedules[id].UpdatedAt = time.Now().Add(-24 * time.Hour)
	return id
}

func TestRefreshAnalyticsUpsertsMetrics(t *testing.T) {
	mr := newFakeMediaRepo()
	sr := newFakeScheduleRepo(mr)
	sa := newFakeSocialAccountRepo()
	ar := newFakeAnalyticsRepo()
	pr := newFakePreferenceRepo()
	tt := &fakeTiktok{metrics: &transfer.TiktokVideoMetrics{
		Views:          1000,
		Likes:          80,
		Shares:         10,
		Comments:       10,
		EngagementRate: 10.0,
	}}
	ctx := context.Background()

	scheduleID := publishedSchedule(sr, 7)
	sa.Create(ctx, nil, &models.SocialAccount{UserID: 7, Platform: models.PlatformTiktok})

	job := NewAnalyticsJob(sr, sa, ar, pr, tt)
	job.RefreshAnalytics()

	rows, _ := ar.GetByScheduleID(ctx, scheduleID)
	if len(rows) != 1 {
		t.Fatalf("analytics rows = %d, want 1", len(rows))
	}
	if rows[0].Views != 1000 || rows[0].EngagementRate != 10.0 {
		t.Errorf("unexpected row %+v", rows[0])
	}

	// A second run the same day updates in place instead of duplicating.
	tt.metrics.Views = 2000
	job.RefreshAnalytics()

	rows, _ = ar.GetByScheduleID(ctx, scheduleID)
	if len(rows) != 1 {
		t.Fatalf("rows after second run = %d, want still 1", len(rows))
	}
	if rows[0].Views != 2000 {
		t.Errorf("views = %d, want refreshed 2000", rows[0].Views)
	}
}

func TestRefreshAnalyticsRecomputesOptimalTimes(t *testing.T) {
	mr := newFakeMediaRepo()
	sr := newFakeScheduleRepo(mr)
	sa := newFakeSocialAccountRepo()
	ar := newFakeAnalyticsRepo()
	pr := newFakePreferenceRepo()
	tt := &fakeTiktok{metrics: &transfer.TiktokVideoMetrics{}}

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	ar.samples[7] = []*repository.HourlyEngagement{
		{ScheduledTime: day.Add(9 * time.Hour), EngagementRate: 3.0},
		{ScheduledTime: day.Add(15 * time.Hour), EngagementRate: 5.0},
		{ScheduledTime: day.Add(21 * time.Hour), EngagementRate: 4.0},
		{ScheduledTime: day.Add(3 * time.Hour), EngagementRate: 1.0},
		{ScheduledTime: day.Add(12 * time.Hour), EngagementRate: 2.0},
	}

	job := NewAnalyticsJob(sr, sa, ar, pr, tt)
	job.RefreshAnalytics()

	want := []string{"09:00", "15:00", "21:00"}
	if got := pr.updated[7]; !reflect.DeepEqual(got, want) {
		t.Fatalf("optimal times = %v, want %v", got, want)
	}
}

func TestRefreshAnalyticsPersistsTimesWithoutPreferenceRow(t *testing.T) {
	mr := newFakeMediaRepo()
	sr := newFakeScheduleRepo(mr)
	sa := newFakeSocialAccountRepo()
	ar := newFakeAnalyticsRepo()
	pr := newFakePreferenceRepo()
	tt := &fakeTiktok{metrics: &transfer.TiktokVideoMetrics{}}

	// User 7 never saved preferences; the recompute must still land
	// its output instead of matching no row.
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	ar.samples[7] = []*repository.HourlyEngagement{
		{ScheduledTime: day.Add(9 * time.Hour), EngagementRate: 3.0},
		{ScheduledTime: day.Add(15 * time.Hour), EngagementRate: 5.0},
		{ScheduledTime: day.Add(21 * time.Hour), EngagementRate: 4.0},
		{ScheduledTime: day.Add(3 * time.Hour), EngagementRate: 1.0},
		{ScheduledTime: day.Add(12 * time.Hour), EngagementRate: 2.0},
	}

	job := NewAnalyticsJob(sr, sa, ar, pr, tt)
	job.RefreshAnalytics()

	pref, found, _ := pr.GetByUserID(context.Background(), 7)
	if !found {
		t.Fatal("preference row not created by the recompute")
	}
	want := []string{"09:00", "15:00", "21:00"}
	if !reflect.DeepEqual([]string(pref.OptimalPostTimes), want) {
		t.Fatalf("optimal times = %v, want %v", pref.OptimalPostTimes, want)
	}
	if pref.Timezone != "UTC" || !pref.AutoSchedule {
		t.Errorf("created row lost defaults: %+v", pref)
	}
}

func TestRefreshAnalyticsSkipsSparseUsers(t *testing.T) {
	mr := newFakeMediaRepo()
	sr := newFakeScheduleRepo(mr)
	sa := newFakeSocialAccountRepo()
	ar := newFakeAnalyticsRepo()
	pr := newFakePreferenceRepo()
	tt := &fakeTiktok{metrics: &transfer.TiktokVideoMetrics{}}

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	// Four samples: below the minimum, so the preference stays put.
	ar.samples[7] = []*repository.HourlyEngagement{
		{ScheduledTime: day.Add(9 * time.Hour), EngagementRate: 3.0},
		{ScheduledTime: day.Add(15 * time.Hour), EngagementRate: 5.0},
		{ScheduledTime: day.Add(21 * time.Hour), EngagementRate: 4.0},
		{ScheduledTime: day.Add(3 * time.Hour), EngagementRate: 1.0},
	}

	job := NewAnalyticsJob(sr, sa, ar, pr, tt)
	job.RefreshAnalytics()

	if _, ok := pr.updated[7]; ok {
		t.Fatal("optimal times updated despite insufficient samples")
	}
}
