package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
)

type IdeaRepository interface {
	Create(ctx context.Context, tx *sql.Tx, idea *models.Idea) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Idea, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Idea, error)
	CheckByUserID(ctx context.Context, ideaID, userID int64) (bool, error)
	UpdateStatus(ctx context.Context, status string, ideaID int64) error
	UpdateStatusFrom(ctx context.Context, from, to string, ideaID int64) error
	MarkProcessing(ctx context.Context, ideaID int64, processedAt time.Time) error
	MarkFailed(ctx context.Context, ideaID int64, errorMessage string) error
	ListPublishedBefore(ctx context.Context, cutoff time.Time, derivedPrefix string) ([]*models.Idea, error)
	CountByStatus(ctx context.Context, userID int64) (map[string]int64, error)
}

type ideaRepository struct {
	db *sql.DB
}

func NewIdeaRepository(db *sql.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func (r *ideaRepository) Create(ctx context.Context, tx *sql.Tx, idea *models.Idea) (int64, error) {
	query := `
		INSERT INTO ideas (user_id, text, status, priority, target_audience, keywords)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, idea.UserID, idea.Text, idea.Status, idea.Priority, idea.TargetAudience, idea.Keywords).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, idea.UserID, idea.Text, idea.Status, idea.Priority, idea.TargetAudience, idea.Keywords).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

const ideaColumns = `id, user_id, text, status, priority, target_audience, keywords, error_message, retry_count, processed_at, created_at, updated_at`

func scanIdea(row interface{ Scan(dest ...any) error }) (*models.Idea, error) {
	var idea models.Idea
	err := row.Scan(&idea.ID, &idea.UserID, &idea.Text, &idea.Status, &idea.Priority,
		&idea.TargetAudience, &idea.Keywords, &idea.ErrorMessage, &idea.RetryCount,
		&idea.ProcessedAt, &idea.CreatedAt, &idea.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *ideaRepository) GetByID(ctx context.Context, id int64) (*models.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	idea, err := scanIdea(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return idea, nil
}

func (r *ideaRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var ideas []*models.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

func (r *ideaRepository) CheckByUserID(ctx context.Context, ideaID, userID int64) (bool, error) {
	query := "SELECT 1 FROM ideas WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, ideaID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *ideaRepository) UpdateStatus(ctx context.Context, status string, ideaID int64) error {
	query := `
		UPDATE ideas
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), ideaID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// UpdateStatusFrom only succeeds if the idea is still in the expected
// prior status. Zero rows affected means another sweep won the race.
func (r *ideaRepository) UpdateStatusFrom(ctx context.Context, from, to string, ideaID int64) error {
	query := `
		UPDATE ideas
		SET status = $1,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, to, time.Now(), ideaID, from)
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

func (r *ideaRepository) MarkProcessing(ctx context.Context, ideaID int64, processedAt time.Time) error {
	query := `
		UPDATE ideas
		SET status = $1,
			processed_at = $2,
			updated_at = $3
		WHERE id = $4 AND status = $5
	`
	result, err := r.db.ExecContext(ctx, query, models.IdeaStatusProcessing, processedAt, time.Now(), ideaID, models.IdeaStatusQueued)
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

func (r *ideaRepository) MarkFailed(ctx context.Context, ideaID int64, errorMessage string) error {
	query := `
		UPDATE ideas
		SET status = $1,
			error_message = $2,
			retry_count = retry_count + 1,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.IdeaStatusFailed, errorMessage, time.Now(), ideaID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// ListPublishedBefore returns published ideas older than the cutoff
// that do not already have a derived copy with the given text prefix.
func (r *ideaRepository) ListPublishedBefore(ctx context.Context, cutoff time.Time, derivedPrefix string) ([]*models.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas i
		WHERE i.status = $1 AND i.updated_at < $2
		AND NOT EXISTS (
			SELECT 1 FROM ideas c
			WHERE c.user_id = i.user_id AND c.text = $3 || i.text
		)`

	rows, err := r.db.QueryContext(ctx, query, models.IdeaStatusPublished, cutoff, derivedPrefix)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var ideas []*models.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

func (r *ideaRepository) CountByStatus(ctx context.Context, userID int64) (map[string]int64, error) {
	query := `SELECT status, COUNT(*) FROM ideas WHERE user_id = $1 GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		counts[status] = count
	}
	return counts, nil
}
