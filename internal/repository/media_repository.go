package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
)

type MediaRepository interface {
	Create(ctx context.Context, tx *sql.Tx, media *models.Media) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Media, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Media, error)
	MarkReady(ctx context.Context, mediaID int64, fileKey, fileURL string, fileSize int64, duration int, format string) error
	UpdateStatusFrom(ctx context.Context, from, to string, mediaID int64) error
	ListReadyVideosWithoutActiveSchedule(ctx context.Context, limit int) ([]*models.Media, error)
	HasActiveSchedule(ctx context.Context, mediaID int64) (bool, error)
}

type mediaRepository struct {
	db *sql.DB
}

func NewMediaRepository(db *sql.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, tx *sql.Tx, media *models.Media) (int64, error) {
	query := `
		INSERT INTO media (script_id, idea_id, user_id, kind, status, ai_model, generation_params)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, media.ScriptID, media.IdeaID, media.UserID, media.Kind, media.Status, media.AiModel, media.GenerationParams).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, media.ScriptID, media.IdeaID, media.UserID, media.Kind, media.Status, media.AiModel, media.GenerationParams).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

const mediaColumns = `id, script_id, idea_id, user_id, kind, status, file_key, file_url, file_size, duration, format, ai_model, generation_params, created_at, updated_at`

func scanMedia(row interface{ Scan(dest ...any) error }) (*models.Media, error) {
	var m models.Media
	err := row.Scan(&m.ID, &m.ScriptID, &m.IdeaID, &m.UserID, &m.Kind, &m.Status,
		&m.FileKey, &m.FileURL, &m.FileSize, &m.Duration, &m.Format, &m.AiModel,
		&m.GenerationParams, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id int64) (*models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	media, err := scanMedia(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return media, nil
}

func (r *mediaRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var mediaList []*models.Media
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		mediaList = append(mediaList, media)
	}
	return mediaList, nil
}

func (r *mediaRepository) MarkReady(ctx context.Context, mediaID int64, fileKey, fileURL string, fileSize int64, duration int, format string) error {
	query := `
		UPDATE media
		SET status = $1,
			file_key = $2,
			file_url = $3,
			file_size = $4,
			duration = $5,
			format = $6,
			updated_at = $7
		WHERE id = $8 AND status = $9
	`
	result, err := r.db.ExecContext(ctx, query, models.MediaStatusReady, fileKey, fileURL, fileSize, duration, format, time.Now(), mediaID, models.MediaStatusGenerating)
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

func (r *mediaRepository) UpdateStatusFrom(ctx context.Context, from, to string, mediaID int64) error {
	query := `
		UPDATE media
		SET status = $1,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, to, time.Now(), mediaID, from)
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

// ListReadyVideosWithoutActiveSchedule feeds the auto-schedule sweep.
// The NOT EXISTS clause is what enforces at most one pending or
// uploading schedule per media item.
func (r *mediaRepository) ListReadyVideosWithoutActiveSchedule(ctx context.Context, limit int) ([]*models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media m
		WHERE m.status = $1 AND m.kind = $2
		AND NOT EXISTS (
			SELECT 1 FROM schedules s
			WHERE s.media_id = m.id AND s.status IN ($3, $4)
		)
		ORDER BY m.created_at ASC
		LIMIT $5`

	rows, err := r.db.QueryContext(ctx, query, models.MediaStatusReady, models.MediaKindVideo,
		models.ScheduleStatusPending, models.ScheduleStatusUploading, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var mediaList []*models.Media
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		mediaList = append(mediaList, media)
	}
	return mediaList, nil
}

func (r *mediaRepository) HasActiveSchedule(ctx context.Context, mediaID int64) (bool, error) {
	query := `SELECT 1 FROM schedules WHERE media_id = $1 AND status IN ($2, $3) LIMIT 1`

	var result int
	err := r.db.QueryRowContext(ctx, query, mediaID, models.ScheduleStatusPending, models.ScheduleStatusUploading).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}
