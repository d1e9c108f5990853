package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/clipcast/internal/models"
)

type PreferenceRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserPreference, bool, error)
	Upsert(ctx context.Context, p *models.UserPreference) error
	UpdateOptimalTimes(ctx context.Context, userID int64, optimalTimes []string) error
}

type preferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserPreference, bool, error) {
	query := `SELECT id, user_id, optimal_post_times, timezone, content_style, auto_schedule, created_at, updated_at
		FROM user_preferences WHERE user_id = $1`
	row := r.db.QueryRowContext(ctx, query, userID)

	var p models.UserPreference
	err := row.Scan(&p.ID, &p.UserID, &p.OptimalPostTimes, &p.Timezone, &p.ContentStyle, &p.AutoSchedule, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &p, true, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, p *models.UserPreference) error {
	query := `
		INSERT INTO user_preferences (user_id, optimal_post_times, timezone, content_style, auto_schedule)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET
			optimal_post_times = EXCLUDED.optimal_post_times,
			timezone = EXCLUDED.timezone,
			content_style = EXCLUDED.content_style,
			auto_schedule = EXCLUDED.auto_schedule,
			updated_at = $6
	`
	_, err := r.db.ExecContext(ctx, query, p.UserID, p.OptimalPostTimes, p.Timezone, p.ContentStyle, p.AutoSchedule, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// UpdateOptimalTimes persists recomputed times even for users who never
// saved preferences, creating the row with default settings.
func (r *preferenceRepository) UpdateOptimalTimes(ctx context.Context, userID int64, optimalTimes []string) error {
	query := `
		INSERT INTO user_preferences (user_id, optimal_post_times, timezone, auto_schedule)
		VALUES ($1, $2, 'UTC', TRUE)
		ON CONFLICT (user_id)
		DO UPDATE SET
			optimal_post_times = EXCLUDED.optimal_post_times,
			updated_at = $3
	`
	_, err := r.db.ExecContext(ctx, query, userID, pq.StringArray(optimalTimes), time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
