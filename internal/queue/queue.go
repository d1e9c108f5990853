package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// EnqueueGeneration queues an idea for the background generation
// pipeline. Tasks are never retried by asynq: a failed idea stays
// failed until the user resubmits it.
func (q *Queue) EnqueueGeneration(ctx context.Context, ideaID int64) error {
	taskPayload, err := json.Marshal(GeneratePipelinePayload{IdeaID: ideaID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeGeneratePipeline, taskPayload, asynq.MaxRetry(0))

	_, err = q.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}

	slog.Info("generation task enqueued", slog.Int64("idea_id", ideaID))
	return nil
}
