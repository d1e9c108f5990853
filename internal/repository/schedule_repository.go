package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
)

type ScheduleRepository interface {
	Create(ctx context.Context, tx *sql.Tx, schedule *models.Schedule) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Schedule, error)
	ListActiveByUserID(ctx context.Context, userID int64) ([]*models.Schedule, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Schedule, error)
	ListPublishedSince(ctx context.Context, since time.Time) ([]*models.Schedule, error)
	ClaimForUpload(ctx context.Context, scheduleID int64, attemptAt time.Time) error
	MarkPublished(ctx context.Context, scheduleID int64, videoID, shareURL string) error
	MarkFailed(ctx context.Context, scheduleID int64, errorMessage string) error
	Cancel(ctx context.Context, scheduleID, userID int64) error
}

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

// Create inserts the schedule only while its media has no other pending
// or uploading schedule. The guard lives in the same statement as the
// insert, so two concurrent callers cannot both book the media; the
// loser gets pipeline.ErrConflict.
func (r *scheduleRepository) Create(ctx context.Context, tx *sql.Tx, schedule *models.Schedule) (int64, error) {
	query := `
		INSERT INTO schedules (media_id, idea_id, user_id, scheduled_time, status, upload_attempt_count, last_attempt_at)
		SELECT $1, $2, $3, $4, $5, $6, $7
		WHERE NOT EXISTS (
			SELECT 1 FROM schedules
			WHERE media_id = $1 AND status IN ($8, $9)
		)
		RETURNING id
	`
	args := []any{schedule.MediaID, schedule.IdeaID, schedule.UserID, schedule.ScheduledTime, schedule.Status, schedule.UploadAttemptCount, schedule.LastAttemptAt,
		models.ScheduleStatusPending, models.ScheduleStatusUploading}

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, pipeline.ErrConflict
		}
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

const scheduleColumns = `id, media_id, idea_id, user_id, scheduled_time, status, tiktok_video_id, tiktok_share_url, upload_attempt_count, last_attempt_at, error_message, created_at, updated_at`

func scanSchedule(row interface{ Scan(dest ...any) error }) (*models.Schedule, error) {
	var s models.Schedule
	err := row.Scan(&s.ID, &s.MediaID, &s.IdeaID, &s.UserID, &s.ScheduledTime, &s.Status,
		&s.TiktokVideoID, &s.TiktokShareURL, &s.UploadAttemptCount, &s.LastAttemptAt,
		&s.ErrorMessage, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	schedule, err := scanSchedule(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return schedule, nil
}

func (r *scheduleRepository) ListActiveByUserID(ctx context.Context, userID int64) ([]*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules
		WHERE user_id = $1 AND status IN ($2, $3)
		ORDER BY scheduled_time ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, models.ScheduleStatusPending, models.ScheduleStatusUploading)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

func (r *scheduleRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules
		WHERE status = $1 AND scheduled_time <= $2
		ORDER BY scheduled_time ASC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, models.ScheduleStatusPending, now, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

func (r *scheduleRepository) ListPublishedSince(ctx context.Context, since time.Time) ([]*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules
		WHERE status = $1 AND updated_at >= $2`

	rows, err := r.db.QueryContext(ctx, query, models.ScheduleStatusPublished, since)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

// ClaimForUpload flips pending to uploading and bumps the attempt count
// in one conditional update so a concurrent sweep cannot claim the same
// schedule twice.
func (r *scheduleRepository) ClaimForUpload(ctx context.Context, scheduleID int64, attemptAt time.Time) error {
	query := `
		UPDATE schedules
		SET status = $1,
			upload_attempt_count = upload_attempt_count + 1,
			last_attempt_at = $2,
			updated_at = $3
		WHERE id = $4 AND status = $5
	`
	result, err := r.db.ExecContext(ctx, query, models.ScheduleStatusUploading, attemptAt, time.Now(), scheduleID, models.ScheduleStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return pipeline.ErrConflict
	}
	return nil
}

func (r *scheduleRepository) MarkPublished(ctx context.Context, scheduleID int64, videoID, shareURL string) error {
	query := `
		UPDATE schedules
		SET status = $1,
			tiktok_video_id = $2,
			tiktok_share_url = $3,
			updated_at = $4
		WHERE id = $5 AND status = $6
	`
	result, err := r.db.ExecContext(ctx, query, models.ScheduleStatusPublished, videoID, shareURL, time.Now(), scheduleID, models.ScheduleStatusUploading)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return pipeline.ErrConflict
	}
	return nil
}

func (r *scheduleRepository) MarkFailed(ctx context.Context, scheduleID int64, errorMessage string) error {
	query := `
		UPDATE schedules
		SET status = $1,
			error_message = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.ScheduleStatusFailed, errorMessage, time.Now(), scheduleID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// Cancel only succeeds while the schedule is still pending; a claimed
// or terminal schedule is past the cancellation point.
func (r *scheduleRepository) Cancel(ctx context.Context, scheduleID, userID int64) error {
	query := `
		UPDATE schedules
		SET status = $1,
			updated_at = $2
		WHERE id = $3 AND user_id = $4 AND status = $5
	`
	result, err := r.db.ExecContext(ctx, query, models.ScheduleStatusCancelled, time.Now(), scheduleID, userID, models.ScheduleStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return pipeline.ErrConflict
	}
	return nil
}
