package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/repository"
)

// PublishService executes exactly one publish attempt for a schedule.
// Both the due-schedule sweep and the synchronous post-now path funnel
// through it; retry policy lives with the callers, never in here.
type PublishService interface {
	PublishSchedule(ctx context.Context, scheduleID int64) error
}

type publishService struct {
	schr  repository.ScheduleRepository
	ir    repository.IdeaRepository
	mr    repository.MediaRepository
	sr    repository.ScriptRepository
	sa    repository.SocialAccountRepository
	ar    repository.AnalyticsRepository
	tt    TiktokService
	store ObjectStore
}

func NewPublishService(
	schr repository.ScheduleRepository,
	ir repository.IdeaRepository,
	mr repository.MediaRepository,
	sr repository.ScriptRepository,
	sa repository.SocialAccountRepository,
	ar repository.AnalyticsRepository,
	tt TiktokService,
	store ObjectStore) PublishService {
	return &publishService{
		schr:  schr,
		ir:    ir,
		mr:    mr,
		sr:    sr,
		sa:    sa,
		ar:    ar,
		tt:    tt,
		store: store,
	}
}

func (s *publishService) PublishSchedule(ctx context.Context, scheduleID int64) error {
	schedule, err := s.schr.GetByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if schedule == nil {
		return pipeline.ErrNotFound
	}

	switch schedule.Status {
	case models.ScheduleStatusPending:
		// Claiming flips to uploading and bumps the attempt count; a
		// concurrent sweep losing this race skips the schedule.
		if err := s.schr.ClaimForUpload(ctx, scheduleID, time.Now()); err != nil {
			if pipeline.IsConflict(err) {
				slog.Info("schedule already claimed", "schedule_id", scheduleID)
				return nil
			}
			return err
		}
	case models.ScheduleStatusUploading:
		// Post-now creates the schedule already claimed, with its
		// attempt bookkeeping done at creation.
	default:
		return pipeline.Validationf("schedule %d is %s, not publishable", scheduleID, schedule.Status)
	}

	media, err := s.mr.GetByID(ctx, schedule.MediaID)
	if err != nil {
		return err
	}
	if media == nil {
		return s.fail(ctx, schedule, "media record missing")
	}

	script, err := s.sr.GetByID(ctx, media.ScriptID)
	if err != nil {
		return err
	}

	acc, err := s.sa.GetByUserPlatform(ctx, schedule.UserID, models.PlatformTiktok)
	if err != nil {
		return err
	}
	if acc == nil {
		return s.fail(ctx, schedule, "TikTok account not connected")
	}

	videoID, shareURL, err := s.tt.UploadVideo(ctx, acc, media.FileURL, buildCaption(script))
	if err != nil {
		return s.fail(ctx, schedule, err.Error())
	}

	if err := s.schr.MarkPublished(ctx, schedule.ID, videoID, shareURL); err != nil {
		return err
	}
	// Advance the idea only from scheduled; a concurrent write that
	// already moved it wins and is left alone.
	if err := s.ir.UpdateStatusFrom(ctx, models.IdeaStatusScheduled, models.IdeaStatusPublished, schedule.IdeaID); err != nil && !pipeline.IsConflict(err) {
		return err
	}

	// Seed a zero-metric analytics row so the video shows up in
	// aggregates before the nightly refresh runs.
	seed := &models.Analytics{
		ScheduleID:    schedule.ID,
		UserID:        schedule.UserID,
		TiktokVideoID: videoID,
		FetchDate:     truncateToDay(time.Now()),
	}
	if err := s.ar.Upsert(ctx, seed); err != nil {
		slog.Error("failed to seed analytics row", "schedule_id", schedule.ID, "error", err.Error())
	}

	s.reclaimStorage(ctx, media)

	slog.Info("schedule published", "schedule_id", schedule.ID, "video_id", videoID)
	return nil
}

// fail records the terminal failed state on both the schedule and its
// idea. The returned upstream error lets the post-now caller surface it.
func (s *publishService) fail(ctx context.Context, schedule *models.Schedule, message string) error {
	if err := s.schr.MarkFailed(ctx, schedule.ID, message); err != nil {
		return err
	}
	if err := s.ir.MarkFailed(ctx, schedule.IdeaID, message); err != nil {
		return err
	}
	return pipeline.Upstreamf("%s", message)
}

// reclaimStorage deletes the published video's backing object and flips
// the media row to uploaded. Cleanup failures are logged, not fatal: the
// publish already succeeded.
func (s *publishService) reclaimStorage(ctx context.Context, media *models.Media) {
	if media.FileKey != "" {
		if err := s.store.Delete(ctx, media.FileKey); err != nil {
			slog.Error("failed to delete media object", "media_id", media.ID, "error", err.Error())
			return
		}
	}
	if err := s.mr.UpdateStatusFrom(ctx, models.MediaStatusReady, models.MediaStatusUploaded, media.ID); err != nil && !pipeline.IsConflict(err) {
		slog.Error("failed to mark media uploaded", "media_id", media.ID, "error", err.Error())
	}
}

func buildCaption(script *models.Script) string {
	if script == nil {
		return ""
	}
	caption := script.Hook
	if script.CallToAction != "" {
		if caption != "" {
			caption += " "
		}
		caption += script.CallToAction
	}
	return caption
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
