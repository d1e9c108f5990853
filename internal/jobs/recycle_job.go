package job

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/internal/service"
)

const (
	recycleAge    = 60 * 24 * time.Hour
	recyclePrefix = "[RECYCLED] "
)

type RecycleJob struct {
	ir repository.IdeaRepository
	q  service.GenerationEnqueuer
}

func NewRecycleJob(ir repository.IdeaRepository, q service.GenerationEnqueuer) *RecycleJob {
	return &RecycleJob{ir: ir, q: q}
}

// RecycleIdeas clones ideas published more than sixty days ago back
// into the queue. The original row is never modified, and an idea that
// has already been recycled once is not recycled again.
func (j *RecycleJob) RecycleIdeas() {
	ctx := context.Background()
	cutoff := time.Now().Add(-recycleAge)

	ideas, err := j.ir.ListPublishedBefore(ctx, cutoff, recyclePrefix)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, idea := range ideas {
		if strings.HasPrefix(idea.Text, recyclePrefix) {
			continue
		}

		clone := &models.Idea{
			UserID:         idea.UserID,
			Text:           recyclePrefix + idea.Text,
			Status:         models.IdeaStatusQueued,
			Priority:       models.IdeaPriorityNormal,
			TargetAudience: idea.TargetAudience,
			Keywords:       idea.Keywords,
		}

		cloneID, err := j.ir.Create(ctx, nil, clone)
		if err != nil {
			slog.Info("recycle skipped idea",
				slog.Int64("idea_id", idea.ID),
				slog.String("err", err.Error()))
			continue
		}

		if err := j.q.EnqueueGeneration(ctx, cloneID); err != nil {
			slog.Info("recycle enqueue failed",
				slog.Int64("idea_id", cloneID),
				slog.String("err", err.Error()))
		}
	}
}
