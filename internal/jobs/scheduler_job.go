package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/internal/service"
)

const (
	autoScheduleBatchSize = 60
	dueScheduleBatchSize  = 10
)

// defaultPostTimes is used until the nightly calculator has learned
// the user's own optimal hours.
var defaultPostTimes = []string{"09:00", "15:00", "21:00"}

type SchedulerJob struct {
	mr  repository.MediaRepository
	sr  repository.ScheduleRepository
	ir  repository.IdeaRepository
	pr  repository.PreferenceRepository
	pub service.PublishService
}

func NewSchedulerJob(
	mr repository.MediaRepository,
	sr repository.ScheduleRepository,
	ir repository.IdeaRepository,
	pr repository.PreferenceRepository,
	pub service.PublishService) *SchedulerJob {
	return &SchedulerJob{
		mr:  mr,
		sr:  sr,
		ir:  ir,
		pr:  pr,
		pub: pub,
	}
}

// AutoScheduleSweep picks up ready videos that have no active schedule
// and books each one into its owner's next optimal slot.
func (j *SchedulerJob) AutoScheduleSweep() {
	ctx := context.Background()

	mediaList, err := j.mr.ListReadyVideosWithoutActiveSchedule(ctx, autoScheduleBatchSize)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, media := range mediaList {
		if err := j.scheduleMedia(ctx, media); err != nil {
			slog.Info("auto-schedule skipped media",
				slog.Int64("media_id", media.ID),
				slog.String("err", err.Error()))
		}
	}
}

func (j *SchedulerJob) scheduleMedia(ctx context.Context, media *models.Media) error {
	pref, found, err := j.pr.GetByUserID(ctx, media.UserID)
	if err != nil {
		return err
	}

	timezone := "UTC"
	postTimes := defaultPostTimes
	if found {
		if !pref.AutoSchedule {
			return nil
		}
		timezone = pref.Timezone
		if len(pref.OptimalPostTimes) > 0 {
			postTimes = pref.OptimalPostTimes
		}
	}

	slot, err := service.NextPostTime(postTimes, timezone, time.Now())
	if err != nil {
		return err
	}

	schedule := &models.Schedule{
		MediaID:       media.ID,
		IdeaID:        media.IdeaID,
		UserID:        media.UserID,
		ScheduledTime: slot,
		Status:        models.ScheduleStatusPending,
	}

	if _, err := j.sr.Create(ctx, nil, schedule); err != nil {
		// Someone else booked this media between the listing and the
		// insert; the conditional create keeps it single-booked.
		if pipeline.IsConflict(err) {
			return nil
		}
		return err
	}

	err = j.ir.UpdateStatusFrom(ctx, models.IdeaStatusMediaReady, models.IdeaStatusScheduled, media.IdeaID)
	if err != nil && !pipeline.IsConflict(err) {
		return err
	}
	return nil
}

// DueScheduleSweep hands pending schedules whose time has come to the
// publish handler. The batch is small to bound concurrent uploads.
func (j *SchedulerJob) DueScheduleSweep() {
	ctx := context.Background()

	due, err := j.sr.ListDue(ctx, time.Now(), dueScheduleBatchSize)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup
	for _, schedule := range due {
		wg.Add(1)
		go func(scheduleID int64) {
			defer wg.Done()
			if err := j.pub.PublishSchedule(ctx, scheduleID); err != nil {
				slog.Info("publish attempt failed",
					slog.Int64("schedule_id", scheduleID),
					slog.String("err", err.Error()))
			}
		}(schedule.ID)
	}
	wg.Wait()
}
