package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/clipcast/internal/models"
)

type ScriptRepository interface {
	Create(ctx context.Context, tx *sql.Tx, script *models.Script) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Script, error)
	GetByIdeaID(ctx context.Context, ideaID int64) (*models.Script, error)
}

type scriptRepository struct {
	db *sql.DB
}

func NewScriptRepository(db *sql.DB) ScriptRepository {
	return &scriptRepository{db: db}
}

func (r *scriptRepository) Create(ctx context.Context, tx *sql.Tx, script *models.Script) (int64, error) {
	query := `
		INSERT INTO scripts (idea_id, user_id, content, hook, call_to_action, estimated_duration, ai_model)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, script.IdeaID, script.UserID, script.Content, script.Hook, script.CallToAction, script.EstimatedDuration, script.AiModel).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, script.IdeaID, script.UserID, script.Content, script.Hook, script.CallToAction, script.EstimatedDuration, script.AiModel).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

const scriptColumns = `id, idea_id, user_id, content, hook, call_to_action, estimated_duration, ai_model, created_at`

func (r *scriptRepository) GetByID(ctx context.Context, id int64) (*models.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var s models.Script
	err := row.Scan(&s.ID, &s.IdeaID, &s.UserID, &s.Content, &s.Hook, &s.CallToAction, &s.EstimatedDuration, &s.AiModel, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &s, nil
}

func (r *scriptRepository) GetByIdeaID(ctx context.Context, ideaID int64) (*models.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE idea_id = $1 ORDER BY created_at DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, ideaID)

	var s models.Script
	err := row.Scan(&s.ID, &s.IdeaID, &s.UserID, &s.Content, &s.Hook, &s.CallToAction, &s.EstimatedDuration, &s.AiModel, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &s, nil
}
