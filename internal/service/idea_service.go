package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/internal/transfer"
)

// GenerationEnqueuer hands an accepted idea off to the background
// generation pipeline. Implemented by the queue package.
type GenerationEnqueuer interface {
	EnqueueGeneration(ctx context.Context, ideaID int64) error
}

type IdeaService interface {
	SubmitIdea(ctx context.Context, userID int64, req *transfer.IdeaCreation) (*models.Idea, error)
	GetIdea(ctx context.Context, userID, ideaID int64) (*models.Idea, error)
	ListIdeas(ctx context.Context, userID int64) ([]*models.Idea, error)
}

type ideaService struct {
	ir repository.IdeaRepository
	q  GenerationEnqueuer
}

func NewIdeaService(ir repository.IdeaRepository, q GenerationEnqueuer) IdeaService {
	return &ideaService{ir: ir, q: q}
}

func (s *ideaService) SubmitIdea(ctx context.Context, userID int64, req *transfer.IdeaCreation) (*models.Idea, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, pipeline.Validationf("idea text is required")
	}

	priority := req.Priority
	switch priority {
	case 0:
		priority = models.IdeaPriorityNormal
	case models.IdeaPriorityNormal, models.IdeaPriorityHigh, models.IdeaPriorityUrgent:
	default:
		return nil, pipeline.Validationf("invalid priority: %d", priority)
	}

	idea := &models.Idea{
		UserID:         userID,
		Text:           text,
		TargetAudience: strings.TrimSpace(req.TargetAudience),
		Keywords:       req.Keywords,
		Priority:       priority,
		Status:         models.IdeaStatusQueued,
	}

	ideaID, err := s.ir.Create(ctx, nil, idea)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error saving idea")
	}
	idea.ID = ideaID

	if err := s.q.EnqueueGeneration(ctx, ideaID); err != nil {
		slog.Error("failed to enqueue generation", slog.Int64("idea_id", ideaID), slog.String("err", err.Error()))
		return nil, fmt.Errorf("error queueing idea for generation")
	}

	return idea, nil
}

func (s *ideaService) GetIdea(ctx context.Context, userID, ideaID int64) (*models.Idea, error) {
	idea, err := s.ir.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea == nil || idea.UserID != userID {
		return nil, pipeline.Validationf("idea not found")
	}
	return idea, nil
}

func (s *ideaService) ListIdeas(ctx context.Context, userID int64) ([]*models.Idea, error) {
	ideas, err := s.ir.GetByUserID(ctx, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error listing ideas")
	}
	return ideas, nil
}
