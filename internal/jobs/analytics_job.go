package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/internal/service"
)

const analyticsWindow = 30 * 24 * time.Hour

type AnalyticsJob struct {
	sr repository.ScheduleRepository
	sa repository.SocialAccountRepository
	ar repository.AnalyticsRepository
	pr repository.PreferenceRepository
	tt service.TiktokService
}

func NewAnalyticsJob(
	sr repository.ScheduleRepository,
	sa repository.SocialAccountRepository,
	ar repository.AnalyticsRepository,
	pr repository.PreferenceRepository,
	tt service.TiktokService) *AnalyticsJob {
	return &AnalyticsJob{
		sr: sr,
		sa: sa,
		ar: ar,
		pr: pr,
		tt: tt,
	}
}

// RefreshAnalytics fetches current TikTok metrics for every schedule
// published in the trailing window, then recomputes each active user's
// optimal post times from the refreshed data.
func (j *AnalyticsJob) RefreshAnalytics() {
	ctx := context.Background()
	since := time.Now().Add(-analyticsWindow)

	schedules, err := j.sr.ListPublishedSince(ctx, since)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, schedule := range schedules {
		if err := j.refreshSchedule(ctx, schedule); err != nil {
			slog.Info("analytics refresh skipped schedule",
				slog.Int64("schedule_id", schedule.ID),
				slog.String("err", err.Error()))
		}
	}

	j.recomputeOptimalTimes(ctx, since)
}

func (j *AnalyticsJob) refreshSchedule(ctx context.Context, schedule *models.Schedule) error {
	acc, err := j.sa.GetByUserPlatform(ctx, schedule.UserID, models.PlatformTiktok)
	if err != nil {
		return err
	}
	if acc == nil {
		slog.Info("no connected TikTok account", slog.Int64("user_id", schedule.UserID))
		return nil
	}

	metrics, err := j.tt.FetchVideoMetrics(ctx, acc, schedule.TiktokVideoID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return j.ar.Upsert(ctx, &models.Analytics{
		ScheduleID:     schedule.ID,
		UserID:         schedule.UserID,
		TiktokVideoID:  schedule.TiktokVideoID,
		Views:          metrics.Views,
		Likes:          metrics.Likes,
		Shares:         metrics.Shares,
		Comments:       metrics.Comments,
		EngagementRate: metrics.EngagementRate,
		FetchDate:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	})
}

// recomputeOptimalTimes leaves a user's stored times untouched when
// the trailing window has fewer samples than the calculator needs.
func (j *AnalyticsJob) recomputeOptimalTimes(ctx context.Context, since time.Time) {
	userIDs, err := j.ar.ListUserIDsWithDataSince(ctx, since)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, userID := range userIDs {
		samples, err := j.ar.ListEngagementSince(ctx, userID, since)
		if err != nil {
			slog.Info(err.Error())
			continue
		}
		if len(samples) < service.MinAnalyticsSamples {
			continue
		}

		loc := time.UTC
		pref, found, err := j.pr.GetByUserID(ctx, userID)
		if err != nil {
			slog.Info(err.Error())
			continue
		}
		if found {
			if l, err := time.LoadLocation(pref.Timezone); err == nil {
				loc = l
			}
		}

		times := service.OptimalPostTimes(samples, loc)
		if len(times) == 0 {
			continue
		}

		if err := j.pr.UpdateOptimalTimes(ctx, userID, times); err != nil {
			slog.Info(err.Error())
		}
	}
}
