package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/repository"
)

type ScheduleService interface {
	CreateSchedule(ctx context.Context, userID, mediaID int64, scheduledTime string) (*models.Schedule, error)
	PostNow(ctx context.Context, userID, mediaID int64) (*models.Schedule, error)
	Cancel(ctx context.Context, userID, scheduleID int64) error
	ListActive(ctx context.Context, userID int64) ([]*models.Schedule, error)
}

type scheduleService struct {
	schr repository.ScheduleRepository
	mr   repository.MediaRepository
	ir   repository.IdeaRepository
	sa   repository.SocialAccountRepository
	pub  PublishService
}

func NewScheduleService(
	schr repository.ScheduleRepository,
	mr repository.MediaRepository,
	ir repository.IdeaRepository,
	sa repository.SocialAccountRepository,
	pub PublishService) ScheduleService {
	return &scheduleService{
		schr: schr,
		mr:   mr,
		ir:   ir,
		sa:   sa,
		pub:  pub,
	}
}

// CreateSchedule handles a manual "schedule for time T" request.
func (s *scheduleService) CreateSchedule(ctx context.Context, userID, mediaID int64, scheduledTime string) (*models.Schedule, error) {
	parsedTime, err := time.Parse(time.RFC3339, scheduledTime)
	if err != nil {
		return nil, pipeline.Validationf("invalid scheduled time format: %v", err)
	}

	if !parsedTime.After(time.Now()) {
		return nil, pipeline.Validationf("scheduled time must be in the future")
	}

	media, err := s.validateMedia(ctx, userID, mediaID)
	if err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		MediaID:       media.ID,
		IdeaID:        media.IdeaID,
		UserID:        userID,
		ScheduledTime: parsedTime,
		Status:        models.ScheduleStatusPending,
	}

	scheduleID, err := s.schr.Create(ctx, nil, schedule)
	if err != nil {
		if pipeline.IsConflict(err) {
			return nil, pipeline.Validationf("media already has an active schedule")
		}
		return nil, fmt.Errorf("error creating schedule: %w", err)
	}
	schedule.ID = scheduleID

	s.markIdeaScheduled(ctx, media.IdeaID)

	return schedule, nil
}

// PostNow bypasses the pending queue: the schedule is created already
// claimed and the publish attempt runs synchronously in the request.
func (s *scheduleService) PostNow(ctx context.Context, userID, mediaID int64) (*models.Schedule, error) {
	media, err := s.validateMedia(ctx, userID, mediaID)
	if err != nil {
		return nil, err
	}

	acc, err := s.sa.GetByUserPlatform(ctx, userID, models.PlatformTiktok)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: TikTok account not connected", pipeline.ErrAuthentication)
	}

	now := time.Now()
	schedule := &models.Schedule{
		MediaID:            media.ID,
		IdeaID:             media.IdeaID,
		UserID:             userID,
		ScheduledTime:      now,
		Status:             models.ScheduleStatusUploading,
		UploadAttemptCount: 1,
		LastAttemptAt:      &now,
	}

	scheduleID, err := s.schr.Create(ctx, nil, schedule)
	if err != nil {
		if pipeline.IsConflict(err) {
			return nil, pipeline.Validationf("media already has an active schedule")
		}
		return nil, fmt.Errorf("error creating schedule: %w", err)
	}
	schedule.ID = scheduleID

	s.markIdeaScheduled(ctx, media.IdeaID)

	if err := s.pub.PublishSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}

	return s.schr.GetByID(ctx, scheduleID)
}

// markIdeaScheduled advances the idea only from media_ready. A
// concurrent write that already moved the idea elsewhere wins; the
// schedule itself is unaffected.
func (s *scheduleService) markIdeaScheduled(ctx context.Context, ideaID int64) {
	err := s.ir.UpdateStatusFrom(ctx, models.IdeaStatusMediaReady, models.IdeaStatusScheduled, ideaID)
	if err != nil && !pipeline.IsConflict(err) {
		slog.Info(err.Error())
	}
}

func (s *scheduleService) Cancel(ctx context.Context, userID, scheduleID int64) error {
	err := s.schr.Cancel(ctx, scheduleID, userID)
	if err != nil {
		if pipeline.IsConflict(err) {
			return pipeline.Validationf("schedule is no longer pending")
		}
		return err
	}
	return nil
}

func (s *scheduleService) ListActive(ctx context.Context, userID int64) ([]*models.Schedule, error) {
	schedules, err := s.schr.ListActiveByUserID(ctx, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error listing schedules")
	}
	return schedules, nil
}

// validateMedia enforces ownership, readiness, and the single active
// schedule invariant before any schedule is created.
func (s *scheduleService) validateMedia(ctx context.Context, userID, mediaID int64) (*models.Media, error) {
	if mediaID == 0 {
		return nil, pipeline.Validationf("media id is required")
	}

	media, err := s.mr.GetByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if media == nil || media.UserID != userID {
		return nil, pipeline.Validationf("media not found")
	}
	if media.Status != models.MediaStatusReady {
		return nil, pipeline.Validationf("media is not ready")
	}
	if media.Kind != models.MediaKindVideo {
		return nil, pipeline.Validationf("only video media can be scheduled")
	}

	hasActive, err := s.mr.HasActiveSchedule(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, pipeline.Validationf("media already has an active schedule")
	}

	return media, nil
}
