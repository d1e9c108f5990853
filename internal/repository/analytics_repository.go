package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
)

// HourlyEngagement is one analytics sample joined to the hour its
// schedule was posted at. The hour is taken from scheduled_time in UTC;
// callers shift it into the user's timezone.
type HourlyEngagement struct {
	ScheduledTime  time.Time
	EngagementRate float64
}

type AnalyticsRepository interface {
	Upsert(ctx context.Context, a *models.Analytics) error
	GetByScheduleID(ctx context.Context, scheduleID int64) ([]*models.Analytics, error)
	ListEngagementSince(ctx context.Context, userID int64, since time.Time) ([]*HourlyEngagement, error)
	ListUserIDsWithDataSince(ctx context.Context, since time.Time) ([]int64, error)
	SummaryByUserID(ctx context.Context, userID int64) (views, likes, shares, comments int64, err error)
}

type analyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// Upsert keeps one row per schedule per day. Re-fetching the same day
// updates the row in place; prior days are never touched.
func (r *analyticsRepository) Upsert(ctx context.Context, a *models.Analytics) error {
	query := `
		INSERT INTO analytics (schedule_id, user_id, tiktok_video_id, views, likes, shares, comments, engagement_rate, revenue, fetch_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (schedule_id, fetch_date)
		DO UPDATE SET
			views = EXCLUDED.views,
			likes = EXCLUDED.likes,
			shares = EXCLUDED.shares,
			comments = EXCLUDED.comments,
			engagement_rate = EXCLUDED.engagement_rate,
			revenue = EXCLUDED.revenue
	`
	_, err := r.db.ExecContext(ctx, query, a.ScheduleID, a.UserID, a.TiktokVideoID,
		a.Views, a.Likes, a.Shares, a.Comments, a.EngagementRate, a.Revenue, a.FetchDate)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *analyticsRepository) GetByScheduleID(ctx context.Context, scheduleID int64) ([]*models.Analytics, error) {
	query := `SELECT id, schedule_id, user_id, tiktok_video_id, views, likes, shares, comments, engagement_rate, revenue, fetch_date, created_at
		FROM analytics WHERE schedule_id = $1 ORDER BY fetch_date ASC`

	rows, err := r.db.QueryContext(ctx, query, scheduleID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var records []*models.Analytics
	for rows.Next() {
		var a models.Analytics
		err := rows.Scan(&a.ID, &a.ScheduleID, &a.UserID, &a.TiktokVideoID, &a.Views,
			&a.Likes, &a.Shares, &a.Comments, &a.EngagementRate, &a.Revenue, &a.FetchDate, &a.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		records = append(records, &a)
	}
	return records, nil
}

func (r *analyticsRepository) ListEngagementSince(ctx context.Context, userID int64, since time.Time) ([]*HourlyEngagement, error) {
	query := `SELECT s.scheduled_time, a.engagement_rate
		FROM analytics a
		JOIN schedules s ON s.id = a.schedule_id
		WHERE a.user_id = $1 AND a.fetch_date >= $2`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var samples []*HourlyEngagement
	for rows.Next() {
		var h HourlyEngagement
		if err := rows.Scan(&h.ScheduledTime, &h.EngagementRate); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		samples = append(samples, &h)
	}
	return samples, nil
}

func (r *analyticsRepository) ListUserIDsWithDataSince(ctx context.Context, since time.Time) ([]int64, error) {
	query := `SELECT DISTINCT user_id FROM analytics WHERE fetch_date >= $1`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, nil
}

func (r *analyticsRepository) SummaryByUserID(ctx context.Context, userID int64) (views, likes, shares, comments int64, err error) {
	query := `SELECT COALESCE(SUM(views), 0), COALESCE(SUM(likes), 0), COALESCE(SUM(shares), 0), COALESCE(SUM(comments), 0)
		FROM analytics WHERE user_id = $1`

	err = r.db.QueryRowContext(ctx, query, userID).Scan(&views, &likes, &shares, &comments)
	if err != nil {
		slog.Info(err.Error())
		return 0, 0, 0, 0, err
	}
	return views, likes, shares, comments, nil
}
